// Package scripting loads server extension scripts. Scenario scripts let
// an operator publish extra scenarios without rebuilding the server; each
// script declares scenarios by calling the registration function the
// loader injects.
package scripting

import (
	"fmt"
	"path/filepath"
	"sort"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/gosettlers/server/internal/catalog"
)

// LoadScenarios runs every *.lua file in dir and registers the scenarios
// they declare. Scripts run in isolated states in filename order, so one
// broken script cannot poison the others; its error aborts the boot
// instead.
func LoadScenarios(dir string, cat *catalog.Catalog, log *zap.Logger) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.lua"))
	if err != nil {
		return fmt.Errorf("scripting: bad scenario dir %s: %w", dir, err)
	}
	sort.Strings(files)

	for _, file := range files {
		if err := loadFile(file, cat); err != nil {
			return err
		}
		log.Info("scenario script loaded", zap.String("file", filepath.Base(file)))
	}
	return nil
}

func loadFile(file string, cat *catalog.Catalog) error {
	L := lua.NewState()
	defer L.Close()

	var regErr error
	L.SetGlobal("scenario", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		s := &catalog.Scenario{
			Key:        str(tbl, "key"),
			Title:      str(tbl, "title"),
			Opts:       str(tbl, "opts"),
			MinVersion: num(tbl, "min_version"),
		}
		if err := cat.AddScenario(s); err != nil && regErr == nil {
			regErr = err
		}
		return 0
	}))

	if err := L.DoFile(file); err != nil {
		return fmt.Errorf("scripting: %s: %w", filepath.Base(file), err)
	}
	if regErr != nil {
		return fmt.Errorf("scripting: %s: %w", filepath.Base(file), regErr)
	}
	return nil
}

func str(tbl *lua.LTable, key string) string {
	if v, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(v)
	}
	return ""
}

func num(tbl *lua.LTable, key string) int {
	if v, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return int(v)
	}
	return 0
}
