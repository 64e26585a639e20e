package main

import (
	"github.com/BurntSushi/toml"

	"github.com/odvcencio/synmerge/pkg/semimerge"
)

// fileConfig mirrors .synmerge.toml. Every field is optional; absent
// fields leave semimerge.DefaultConfig()'s value untouched.
type fileConfig struct {
	RenamingStrategy       string `toml:"renaming_strategy"`
	IgnoreWhitespaceChange *bool  `toml:"ignore_whitespace_change"`
	StrictMostSimilar      *bool  `toml:"strict_most_similar"`
	Concurrency            int    `toml:"concurrency"`

	Handlers struct {
		DuplicateDeclarations                *bool `toml:"duplicate_declarations"`
		InitializationBlocks                 *bool `toml:"initialization_blocks"`
		NewElementReferencingEditedOne       *bool `toml:"new_element_referencing_edited_one"`
		MethodAndConstructorRenamingDeletion *bool `toml:"method_and_constructor_renaming_deletion"`
		TypeAmbiguityError                   *bool `toml:"type_ambiguity_error"`
	} `toml:"handlers"`
}

func renamingStrategyFromString(s string) (semimerge.RenamingStrategy, bool) {
	switch s {
	case "SAFE", "":
		return semimerge.Safe, s != ""
	case "KEEP_BOTH":
		return semimerge.KeepBoth, true
	case "MERGE":
		return semimerge.Merge, true
	case "UNSTRUCTURED_MERGE":
		return semimerge.UnstructuredMerge, true
	default:
		return semimerge.Safe, false
	}
}

// loadConfig reads path (if non-empty) and overlays it onto
// semimerge.DefaultConfig(), returning the resolved config and the
// requested fan-out concurrency (1 if unset).
func loadConfig(path string) (semimerge.Config, int, error) {
	cfg := semimerge.DefaultConfig()
	concurrency := 1
	if path == "" {
		return cfg, concurrency, nil
	}

	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return cfg, concurrency, err
	}

	if strategy, explicit := renamingStrategyFromString(fc.RenamingStrategy); explicit {
		cfg.RenamingStrategy = strategy
	}
	if fc.IgnoreWhitespaceChange != nil {
		cfg.IgnoreWhitespaceChange = *fc.IgnoreWhitespaceChange
	}
	if fc.StrictMostSimilar != nil {
		cfg.StrictMostSimilar = *fc.StrictMostSimilar
	}
	if fc.Concurrency > 0 {
		concurrency = fc.Concurrency
	}

	h := fc.Handlers
	if h.DuplicateDeclarations != nil {
		cfg.HandleDuplicateDeclarations = *h.DuplicateDeclarations
	}
	if h.InitializationBlocks != nil {
		cfg.HandleInitializationBlocks = *h.InitializationBlocks
	}
	if h.NewElementReferencingEditedOne != nil {
		cfg.HandleNewElementReferencingEditedOne = *h.NewElementReferencingEditedOne
	}
	if h.MethodAndConstructorRenamingDeletion != nil {
		cfg.HandleMethodAndConstructorRenamingDeletion = *h.MethodAndConstructorRenamingDeletion
	}
	if h.TypeAmbiguityError != nil {
		cfg.HandleTypeAmbiguityError = *h.TypeAmbiguityError
	}

	return cfg, concurrency, nil
}

func exitCodeForErr(err error) int {
	if err == nil {
		return 0
	}
	return -1
}
