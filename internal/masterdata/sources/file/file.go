// Package file implements the local-file master-data source: JSON files
// under a base path, grounded on master_loader.py's item_master.json,
// warehouse_master.json and workstation_master.json, each keyed by the
// entity's natural code field.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
)

// Source reads item/warehouse/workstation master data from
// <basePath>/{item_master,warehouse_master,workstation_master}.json. A
// missing file is treated as an empty set rather than an error, mirroring
// master_loader.py's "file not found -> log and continue" behavior.
type Source struct {
	BasePath string
}

func (s *Source) itemsPath() string       { return filepath.Join(s.BasePath, "item_master.json") }
func (s *Source) warehousesPath() string  { return filepath.Join(s.BasePath, "warehouse_master.json") }
func (s *Source) workstationsPath() string {
	return filepath.Join(s.BasePath, "workstation_master.json")
}

func (s *Source) LoadItems(_ context.Context) ([]string, error) {
	return loadCodes(s.itemsPath(), "items", "item_no")
}

func (s *Source) LoadWarehouses(_ context.Context) ([]string, error) {
	return loadCodes(s.warehousesPath(), "warehouses", "warehouse_no")
}

func (s *Source) LoadWorkstations(_ context.Context) ([]string, error) {
	return loadCodes(s.workstationsPath(), "workstations", "workstation_id")
}

// loadCodes reads path, walks the array at arrayKey, and collects each
// element's codeField. Every entry's full stat payload (stock totals,
// yield rates, and so on) is intentionally left unread: the validator only
// ever asks "does this code exist", never "what is its total_stock".
func loadCodes(path, arrayKey, codeField string) ([]string, error) {
	raw, err := readIfExists(path)
	if err != nil || raw == "" {
		return nil, err
	}
	root := gjson.Parse(raw)
	var codes []string
	root.Get(arrayKey).ForEach(func(_, entry gjson.Result) bool {
		if code := entry.Get(codeField).String(); code != "" {
			codes = append(codes, code)
		}
		return true
	})
	return codes, nil
}

func readIfExists(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(raw), nil
}
