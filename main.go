package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	torch "github.com/wangkuiyi/gotorch"

	"ganbench/config"
	"ganbench/eval"
	"ganbench/gen"
	"ganbench/ml"
	"ganbench/util"
)

func main() {
	runCmd := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := runCmd.String("config", "", "benchmark config file (YAML)")
	dataDir := runCmd.String("data", "", "dataset root with train_1..train_k directories")
	runCmd.Parse(os.Args[1:])

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		cfg, err = config.Load(*cfgPath)
		if err != nil {
			panic(err)
		}
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	util.InitLogger("bench")
	device := ml.Device()
	defer torch.FinishGC()

	paths := realPaths(cfg.DataDir, cfg.NFold)
	if len(paths) == 0 {
		panic("no real images found under " + cfg.DataDir)
	}
	util.Logger.Printf("found %d real images across %d folds", len(paths), cfg.NFold)

	extractor := ml.MakeFeatureExtractor(device, int64(cfg.ImageEdge))
	master := eval.MakeMaster(extractor, cfg.NFold, cfg.BatchSize, cfg.Seed)
	master.Decode = ml.DecodeRGB(cfg.ImageEdge)
	master.Preload = cfg.Preload
	master.Shape = [3]int64{3, int64(cfg.ImageEdge), int64(cfg.ImageEdge)}
	if cfg.GridPath != "" {
		master.Grid = ml.PNGGrid{Path: cfg.GridPath}
	}

	generator := gen.MakeNoise(cfg.Seed)
	generator.Edge = int64(cfg.ImageEdge)
	fitSet, err := eval.MakeImageSet(paths, master.Shape, master.Decode, false)
	if err != nil {
		panic(err)
	}
	generator.Fit(fitSet.Stream(cfg.BatchSize), fitSet.Len())

	scorers := eval.Scorers(master)

	// Ramp-style call sequence: one warm-up call per scorer, then three
	// calls per scorer per fold (train, valid and test rounds sharing one
	// computation), then the bagged terminal round.
	for _, s := range scorers {
		s.Evaluate([]string{}, eval.NewSliceStream(nil))
	}
	for fold := 0; fold < cfg.NFold; fold++ {
		for round := 0; round < 3; round++ {
			stream, _ := generator.Sample(cfg.BatchSize, cfg.Samples)
			for _, s := range scorers {
				v := s.Evaluate(paths, stream)
				util.Logger.Printf("fold %d round %d %s = %s", fold, round, s.Name, format(v, s.Precision))
			}
		}
	}

	extractor.Offload()
	for _, s := range scorers {
		v := s.Evaluate(paths, eval.NewSliceStream(nil))
		util.Logger.Printf("bagged %s = %s", s.Name, format(v, s.Precision))
	}
}

func format(v float64, precision int) string {
	return fmt.Sprintf("%.*f", precision, v)
}

// realPaths collects every image under the train_1..train_k directories in
// deterministic order.
func realPaths(dir string, nFold int) []string {
	var paths []string
	for f := 1; f <= nFold; f++ {
		fns, err := filepath.Glob(filepath.Join(dir, fmt.Sprintf("train_%d", f), "*"))
		if err != nil {
			panic(err)
		}
		paths = append(paths, fns...)
	}
	sort.Strings(paths)
	return paths
}
