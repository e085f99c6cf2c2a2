package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/bindery/internal/config"
	"github.com/vango-dev/bindery/internal/errors"
	"github.com/vango-dev/bindery/pkg/bind"
	"github.com/vango-dev/bindery/pkg/dom"
)

// loadConfig reads the config file at path, or the working directory's
// config, or falls back to defaults.
func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case path != "":
		cfg, err = config.LoadFile(path)
	case config.Exists("."):
		cfg, err = config.Load(".")
	default:
		cfg = config.New()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadTemplate parses an HTML file. Files starting with a doctype or an
// <html> element are parsed as documents, everything else as fragments.
func loadTemplate(path string) (*dom.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("B400").WithDetail(path).Wrap(err)
	}
	var root *dom.Node
	if isDocument(string(data)) {
		root, err = dom.Parse(strings.NewReader(string(data)))
	} else {
		root, err = dom.ParseFragment(strings.NewReader(string(data)))
	}
	if err != nil {
		return nil, errors.New("B400").WithDetail(path).Wrap(err)
	}
	return root, nil
}

func isDocument(src string) bool {
	head := strings.ToLower(strings.TrimSpace(src))
	return strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html")
}

// loadData reads a JSON or YAML object. An empty path yields empty data.
func loadData(path string) (map[string]any, error) {
	data := map[string]any{}
	if path == "" {
		return data, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("B401").WithDetail(path).Wrap(err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(raw, &data)
	default:
		err = yaml.Unmarshal(raw, &data)
	}
	if err != nil {
		return nil, errors.New("B401").WithDetail(path + ": " + err.Error())
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}

// document is a template bound to its data.
type document struct {
	root *dom.Node
	core *bind.Core

	// warnings holds the directives skipped while binding.
	warnings error
}

// bindFiles loads the template and data and mounts them into a core.
func bindFiles(cfg *config.Config, tplPath, dataPath string, opts ...bind.Option) (*document, error) {
	root, err := loadTemplate(tplPath)
	if err != nil {
		return nil, err
	}
	data, err := loadData(dataPath)
	if err != nil {
		return nil, err
	}
	core := bind.New(data, cfg.BindOptions(opts...)...)
	return &document{root: root, core: core, warnings: core.Add(root)}, nil
}

// renderConfig converts the render section for dom.Render.
func renderConfig(cfg *config.Config, core *bind.Core) dom.RenderConfig {
	rc := dom.RenderConfig{
		Pretty:  cfg.Render.Pretty,
		Indent:  cfg.Render.Indent,
		Doctype: cfg.Render.Doctype,
	}
	if cfg.Render.StripDirectives {
		rc.StripDirectives = core.Options().IsDirective
	}
	return rc
}
