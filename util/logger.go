package util

import (
	"fmt"
	"io"
	"log"
	"os"
)

var Logger *log.Logger = log.Default()

// InitLogger sends the run log to both stderr and a per-run file.
func InitLogger(tag string) {
	fname := fmt.Sprintf("eval_log_%s.txt", tag)
	file, err := os.Create(fname)
	if err != nil {
		log.Printf("util: cannot create %s, logging to stderr only", fname)
		Logger = log.New(os.Stderr, tag+": ", log.LstdFlags)
		return
	}
	mw := io.MultiWriter(os.Stderr, file)
	Logger = log.New(mw, tag+": ", log.LstdFlags)
}
