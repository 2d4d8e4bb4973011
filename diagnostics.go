package main

import (
	goerrors "errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/pontaoski/tally/errors"
	"github.com/ztrue/tracerr"
)

var (
	errorColor = color.New(color.FgRed, color.Bold)
	codeColor  = color.New(color.FgHiBlack)
)

// describe renders language errors with their issue code. Other errors are
// returned as they are.
func describe(err error) (string, bool) {
	var issuer errors.Issuer
	if !goerrors.As(tracerr.Unwrap(err), &issuer) {
		return err.Error(), false
	}

	reported := issuer.Issue()
	return fmt.Sprintf("%s %s %s", errorColor.Sprint("error:"), reported.Error(), codeColor.Sprintf("[%s]", reported.Code())), true
}

// report prints err. Failures that are not language errors are printed with
// their stack trace.
func report(err error) {
	msg, ok := describe(err)
	if !ok {
		if _, traced := err.(tracerr.Error); traced {
			tracerr.PrintSourceColor(err)
			return
		}
	}
	fmt.Fprintln(os.Stderr, msg)
}

var verbose bool

func stage(name string, start time.Time) {
	if verbose {
		log.Printf("%s took %s", name, time.Since(start))
	}
}
