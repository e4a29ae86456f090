// Command gochess is a UCI chess engine. It reads commands from stdin and
// writes UCI protocol output to stdout, per the teacher's zurichess/main.go
// entry point (flag parsing, log redirection so diagnostics remain valid
// UCI comments, a line-oriented stdin read loop).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/gochess/gochess/uci"
)

var (
	version = flag.Bool("version", false, "print version and exit")
)

const buildVersion = "(devel)"

func main() {
	flag.Parse()

	fmt.Fprintf(os.Stderr, "gochess %v, running on %v (%v CPUs)\n",
		buildVersion, runtime.GOARCH, runtime.NumCPU())
	if *version {
		return
	}

	log.SetOutput(os.Stdout)
	log.SetPrefix("info string ")
	log.SetFlags(log.Lshortfile)

	ctx := context.Background()
	session := uci.New(os.Stdout)

	onError := func(line string, err error) {
		log.Println("for line:", line)
		log.Println("error:", err)
	}

	session.Run(ctx, os.Stdin, onError)
}
