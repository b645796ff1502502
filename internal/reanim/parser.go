package reanim

import (
	"encoding/xml"
	"fmt"
	"io/fs"
)

// ParseReanimFile parses the Reanim file at path inside fsys.
func ParseReanimFile(fsys fs.FS, path string) (*ReanimXML, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reanim file '%s': %w", path, err)
	}

	reanim, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML from '%s': %w", path, err)
	}
	return reanim, nil
}

// Parse decodes Reanim content. The content is wrapped in a <reanim> root
// element first since Reanim files have none.
func Parse(data []byte) (*ReanimXML, error) {
	wrapped := make([]byte, 0, len(data)+len("<reanim></reanim>"))
	wrapped = append(wrapped, "<reanim>"...)
	wrapped = append(wrapped, data...)
	wrapped = append(wrapped, "</reanim>"...)

	var reanim ReanimXML
	if err := xml.Unmarshal(wrapped, &reanim); err != nil {
		return nil, err
	}
	return &reanim, nil
}
