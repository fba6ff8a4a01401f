//
// Tencent is pleased to support the open source community by making botflow available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// botflow is licensed under the Apache License Version 2.0.
//
//

// Package file loads published flow graphs from a directory of YAML or
// JSON definitions. Files are named {portal}.{audience}.yaml (or .yml,
// .json); the store reads them lazily and caches nothing, so edited
// definitions take effect on the next turn.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"trpc.group/trpc-go/botflow/flow"
)

var extensions = []string{".yaml", ".yml", ".json"}

// Store reads flow definitions from a directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. The directory must exist.
func NewStore(dir string) (*Store, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("flowstore file: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("flowstore file: %s is not a directory", dir)
	}
	return &Store{dir: dir}, nil
}

// GetPublished loads {portal}.{audience}.{yaml|yml|json} from the store
// directory, or returns nil when no such file exists.
func (s *Store) GetPublished(ctx context.Context, portalID string, audience flow.Audience) (*flow.Graph, error) {
	base := portalID + "." + string(audience)
	for _, ext := range extensions {
		path := filepath.Join(s.dir, base+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("flowstore file: read %s: %w", path, err)
		}
		g, err := decode(data, ext)
		if err != nil {
			return nil, fmt.Errorf("flowstore file: parse %s: %w", path, err)
		}
		return g, nil
	}
	return nil, nil
}

func decode(data []byte, ext string) (*flow.Graph, error) {
	var g flow.Graph
	if ext == ".json" {
		if err := json.Unmarshal(data, &g); err != nil {
			return nil, err
		}
		return &g, nil
	}
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, err
	}
	return &g, nil
}
