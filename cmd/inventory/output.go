package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"inventory/internal/model"
)

func writeProperties(w io.Writer, format string, props model.PropertySet) error {
	switch format {
	case "json":
		return writeJSON(w, props)
	case "yaml":
		return writeYAML(w, props)
	case "table", "":
		keys := sortedKeys(props)
		width := len("KEY")
		for _, k := range keys {
			width = max(width, len(k))
		}
		fmt.Fprintf(w, "%-*s  %s\n", width, "KEY", "VALUE")
		for _, k := range keys {
			fmt.Fprintf(w, "%-*s  %q\n", width, k, props[k])
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeEntries(w io.Writer, format string, entries []model.Entry) error {
	switch format {
	case "json":
		return writeJSON(w, entries)
	case "yaml":
		return writeYAML(w, entries)
	case "table", "":
		if len(entries) == 0 {
			fmt.Fprintln(w, "no systems in inventory")
			return nil
		}
		fmt.Fprintf(w, "%-24s  %-10s  %-12s  %-6s  %s\n", "HOSTNAME", "OS", "ARCH", "PROPS", "OS_VERSION")
		for _, e := range entries {
			p := e.Properties
			fmt.Fprintf(w, "%-24s  %-10s  %-12s  %-6d  %s\n",
				e.Hostname, p["os.name"], p["os.arch"], len(p), p["os.version"])
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

func sortedKeys(props model.PropertySet) []string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
