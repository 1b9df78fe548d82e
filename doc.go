// Package seedindex implements the reference seed index of a seed-and-extend
// sequence aligner: it collects spaced-seed occurrences from reference
// sequences, sorts them, writes them as hash table shards, and serves
// seed lookups from memory-mapped shard files.
//
// # Basic Usage
//
// Building a table:
//
//	shape, err := seedindex.NewSeedShape(seedindex.DNAAlphabet(), seedindex.DefaultDNAShape)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	acc, err := seedindex.NewAccumulator(shape.BitsPerLetter(), shape.Weight(), expected)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for id, seq := range refs {
//	    if _, err := seedindex.AddSeeds(acc, shape, uint32(id), seq, 1); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//	if _, err := seedindex.WriteTable("index", 0, acc, shape, seedindex.DNA); err != nil {
//	    log.Fatal(err)
//	}
//
// Looking up seeds:
//
//	table, err := seedindex.Open("index", 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer table.Close()
//
//	var row seedindex.Row
//	if table.Lookup(seedBytes, &row) == 0 {
//	    return
//	}
//	for p := range row.Pairs() {
//	    fmt.Println(p.SequenceID, p.Position)
//	}
//
// BuildIndex does both for several seed shapes at once and writes the index
// summary file.
//
// # Package Structure
//
//   - Seeds: alphabet.go (DNA and reduced protein alphabets), shape.go (spaced
//     seed shapes), scan.go (seed extraction), internal/translate (six-frame
//     translation)
//   - Accumulation: locus.go (packed occurrence words), accumulator.go,
//     radix.go (LSD radix sort of seed/locus pairs)
//   - On-disk format: metadata.go (index<N>.idx), location.go (bucket entries),
//     hash.go (bucket hash), summary.go (summary.idx), files.go (file names)
//   - Writing: table_writer.go, build.go, build_options.go
//   - Reading: table.go, row.go, internal/mmarray (mapped word arrays)
//   - Platform: fallocate_*.go, prefault_*.go, internal/mmarray/advise_*.go
package seedindex
