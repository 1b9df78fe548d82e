// Seedindex builds and inspects seed index directories.
//
// Usage:
//
//	seedindex build -i refs.fasta -o index --type DNA
//	seedindex build -i proteins.fasta -o index --type Protein --reduction MURPHY_10
//	seedindex build -i genomes.fasta -o index --type Protein --translate
//	seedindex lookup index ACGTACGTACGTACGTACGTACGTACGT
//	seedindex info index
//	seedindex dump index --table 0 --buckets 100
//
// Defaults for the worker count, step size, occurrence limit and protein
// reduction come from SEEDINDEX_* environment variables, optionally set in
// a .env file in the working directory.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
