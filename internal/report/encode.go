package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/pretty"

	"github.com/wonny/aegis-wheel/internal/contracts"
)

var prettyOptions = &pretty.Options{
	Width:    100,
	Prefix:   "",
	Indent:   "  ",
	SortKeys: false,
}

// Marshal encodes a report as indented JSON with non-ASCII kept as-is
func Marshal(rep *contracts.DecisionReport) ([]byte, error) {
	if rep == nil {
		return nil, fmt.Errorf("report is nil")
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false) // "&", "<" 그대로
	if err := enc.Encode(rep); err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return pretty.PrettyOptions(buf.Bytes(), prettyOptions), nil
}

// Unmarshal decodes a stored report
func Unmarshal(data []byte) (*contracts.DecisionReport, error) {
	var rep contracts.DecisionReport
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &rep, nil
}

// ReadFile loads a report written by FileWriter
func ReadFile(path string) (*contracts.DecisionReport, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read report %s: %w", path, err)
	}
	rep, err := Unmarshal(data)
	if err != nil {
		return nil, nil, err
	}
	return rep, data, nil
}
