package main

import (
	"os"

	"github.com/dotboot/dotboot/cmd/dotboot"
	"github.com/dotboot/dotboot/pkg/output"
)

func main() {
	rootCmd := dotboot.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		r, rerr := output.NewRenderer(os.Stderr, false)
		if rerr == nil {
			_ = r.RenderError(err)
		} else {
			os.Stderr.WriteString("Error: " + err.Error() + "\n")
		}
		os.Exit(1)
	}
}
