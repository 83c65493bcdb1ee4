package ml

import (
	"log"
	"math"

	torch "github.com/wangkuiyi/gotorch"
	"github.com/wangkuiyi/gotorch/nn"
	F "github.com/wangkuiyi/gotorch/nn/functional"

	"ganbench/eval"
)

// Forwarder is the forward-pass surface of a feature network. To carries
// the variadic dtype parameter so that modules embedding nn.Module satisfy
// the interface with their promoted To method.
type Forwarder interface {
	Forward(x torch.Tensor) torch.Tensor
	To(device torch.Device, dtype ...int8)
}

// Device picks CUDA when available, CPU otherwise.
func Device() torch.Device {
	if torch.IsCUDAAvailable() {
		log.Println("CUDA is valid")
		return torch.NewDevice("cuda")
	}
	log.Println("No CUDA found; CPU only")
	return torch.NewDevice("cpu")
}

// Extractor runs minibatches through a network on the chosen device and
// reads back one embedding row and one class-probability row per image.
// The embedding is the network's raw output; probabilities come from a
// log-softmax over the same output, so one forward pass serves every
// metric.
type Extractor struct {
	net    Forwarder
	device torch.Device
	cpu    torch.Device
}

func MakeExtractor(net Forwarder, device torch.Device) *Extractor {
	net.To(device)
	return &Extractor{net: net, device: device, cpu: torch.NewDevice("cpu")}
}

func (e *Extractor) Extract(b eval.Batch) (feats, probs [][]float64) {
	torch.GC()
	t := torch.NewTensor(b.Data).View(b.Shape[0], b.Shape[1], b.Shape[2], b.Shape[3])
	t = t.To(e.device, t.Dtype())

	out := e.net.Forward(t)
	logp := F.LogSoftmax(out, 1)

	n := int(out.Shape()[0])
	d := int(out.Shape()[1])
	feats = make([][]float64, n)
	probs = make([][]float64, n)
	for i := 0; i < n; i++ {
		f := make([]float64, d)
		p := make([]float64, d)
		for j := 0; j < d; j++ {
			f[j] = float64(out.Index(int64(i), int64(j)).Item().(float32))
			p[j] = math.Exp(float64(logp.Index(int64(i), int64(j)).Item().(float32)))
		}
		feats[i] = f
		probs[i] = p
	}
	return feats, probs
}

// Offload moves the network off the accelerator between evaluations so the
// model under test keeps the headroom. Restore brings it back.
func (e *Extractor) Offload() { e.net.To(e.cpu) }
func (e *Extractor) Restore() { e.net.To(e.device) }

// FeatureNet is the stand-in embedding network used when no pretrained
// inception weights are on disk: a two-layer MLP over the flattened image.
// Its class head doubles as the embedding.
type FeatureNet struct {
	nn.Module
	FC1 *nn.LinearModule
	FC2 *nn.LinearModule

	in int64
}

func MakeFeatureNet(edge, hidden, classes int64) *FeatureNet {
	in := 3 * edge * edge
	n := &FeatureNet{
		FC1: nn.Linear(in, hidden, true),
		FC2: nn.Linear(hidden, classes, true),
		in:  in,
	}
	n.Init(n)
	return n
}

func (n *FeatureNet) Forward(x torch.Tensor) torch.Tensor {
	x = x.View(-1, n.in)
	x = n.FC1.Forward(x).Tanh()
	return n.FC2.Forward(x)
}

// MakeFeatureExtractor wires the default stand-in network for images with
// the given edge size.
func MakeFeatureExtractor(device torch.Device, edge int64) *Extractor {
	return MakeExtractor(MakeFeatureNet(edge, 128, 64), device)
}
