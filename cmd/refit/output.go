package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/viper"
)

// useColor reports whether output should be colored: stdout must be a
// terminal and --no-color must not be set.
func useColor() bool {
	if viper.GetBool("no-color") {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func success(msg string) string {
	if !useColor() {
		return msg
	}
	return color.GreenString(msg)
}

func failure(msg string) string {
	if !useColor() {
		return msg
	}
	return color.RedString(msg)
}

func heading(msg string) string {
	if !useColor() {
		return msg
	}
	return color.New(color.Bold).Sprint(msg)
}
