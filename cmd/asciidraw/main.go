// Asciidraw is an interactive console for drawing ASCII art.
//
// Commands are read from standard input one per line and the canvas is
// shown on standard output. Logs go to standard error.
//
// Usage: asciidraw [-w width] [-h height] [-pen c] [-a addr] [-q]
//
// With -a the same canvas is also served over 9P, so that
//
//	echo 'RECT 1 1 8 4' | 9p write -a localhost:5640 ctl
//	9p read -a localhost:5640 canvas
//
// draw and show from another terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/elizafairlady/asciidraw/config"
	"github.com/elizafairlady/asciidraw/drawfs"
	"github.com/elizafairlady/asciidraw/session"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: asciidraw [flags]\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}
	cfg.RegisterFlags(flag.CommandLine)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 0 {
		usage()
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatal(err)
	}

	level, _ := cfg.Level()
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := session.New(cfg, os.Stdout,
		session.WithLogger(logrus.WithField("component", "session")))
	if err != nil {
		logrus.Fatal(err)
	}

	if cfg.Listen != "" {
		srv := drawfs.NewServer(sess, logrus.WithField("component", "drawfs"))
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.Listen); err != nil {
				logrus.WithError(err).Error("9p server stopped")
			}
		}()
	}

	// Unblock the console read on interrupt.
	go func() {
		<-ctx.Done()
		os.Stdin.Close()
	}()

	if !cfg.Quiet {
		sess.Banner()
	}
	if err := sess.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		logrus.Fatal(err)
	}
}
