package main

import (
	"fmt"
	"os"

	"github.com/HBPMedical/mip-dmp/internal/audit"
	"github.com/HBPMedical/mip-dmp/internal/config"
	"github.com/HBPMedical/mip-dmp/internal/dataset"
	"github.com/HBPMedical/mip-dmp/internal/mapping"
	"github.com/HBPMedical/mip-dmp/internal/schema"
	"github.com/HBPMedical/mip-dmp/internal/similarity"
)

// exitOnError logs the failed event to the audit trail and stderr,
// then exits.
func exitOnError(event *audit.Event, err error) {
	if auditLogger != nil && event != nil {
		auditLogger.LogError(event, err)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func loadSchema(event *audit.Event, path string) *schema.Schema {
	sch, err := schema.LoadFile(path)
	if err != nil {
		exitOnError(event, err)
	}
	return sch
}

func loadDataset(event *audit.Event, path string) *dataset.Table {
	ds, err := dataset.LoadFile(path)
	if err != nil {
		exitOnError(event, err)
	}
	return ds
}

func loadMapping(event *audit.Event, path string) *mapping.Model {
	m, err := mapping.LoadFile(path)
	if err != nil {
		exitOnError(event, err)
	}
	return m
}

// newScorer builds the similarity backend named on the command line,
// falling back to DMP_BACKEND. The glove backend needs a vector table,
// from --vectors or DMP_VECTORS.
func newScorer(event *audit.Event, backend, vectorsPath string) similarity.Scorer {
	if backend == "" {
		backend = config.Env().Backend
	}

	var lex *similarity.Lexicon
	if backend == similarity.BackendGlove {
		if vectorsPath == "" {
			vectorsPath = config.Env().VectorsFile
		}
		if vectorsPath == "" {
			exitOnError(event, fmt.Errorf("backend %q needs a vector table (--vectors or DMP_VECTORS)", backend))
		}
		var err error
		lex, err = similarity.LoadLexiconFile(vectorsPath)
		if err != nil {
			exitOnError(event, err)
		}
	}

	sc, err := similarity.New(backend, lex)
	if err != nil {
		exitOnError(event, err)
	}
	return sc
}
