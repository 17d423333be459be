package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// flagReader reads typed values from one flag set and remembers the first
// lookup failure, so a batch of reads is checked once.
type flagReader struct {
	set *pflag.FlagSet
	err error
}

// globalFlags reads the persistent flags registered on the root command.
func globalFlags(cmd *cobra.Command) *flagReader {
	return &flagReader{set: cmd.Root().PersistentFlags()}
}

func (r *flagReader) fail(name string, err error) {
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("failed to get %s flag: %w", name, err)
	}
}

func (r *flagReader) String(name string) string {
	v, err := r.set.GetString(name)
	r.fail(name, err)
	return v
}

func (r *flagReader) Int(name string) int {
	v, err := r.set.GetInt(name)
	r.fail(name, err)
	return v
}

func (r *flagReader) Bool(name string) bool {
	v, err := r.set.GetBool(name)
	r.fail(name, err)
	return v
}

func (r *flagReader) Duration(name string) time.Duration {
	v, err := r.set.GetDuration(name)
	r.fail(name, err)
	return v
}

// Err returns the first failed lookup.
func (r *flagReader) Err() error { return r.err }
