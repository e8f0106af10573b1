package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/herdplan/herdplan/core/model"
)

// LotSpec is the file representation of one lot. Either Protocol names a
// predefined protocol or ProtocolDays lists custom day offsets.
type LotSpec struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Anchor       string `json:"anchor" yaml:"anchor"`
	Protocol     string `json:"protocol" yaml:"protocol"`
	ProtocolDays []int  `json:"protocol_days" yaml:"protocol_days"`
	RoundGaps    []int  `json:"round_gaps" yaml:"round_gaps"`
	Animals      int    `json:"animals" yaml:"animals"`
	Locked       bool   `json:"locked" yaml:"locked"`
}

// LotFile is the top-level structure of a lots file.
type LotFile struct {
	Lots []LotSpec `json:"lots" yaml:"lots"`
}

// LoadLots reads lots from a JSON or YAML file.
func LoadLots(path string) ([]model.Lot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	return DecodeLots(f, ext)
}

// DecodeLots reads from r to decode a lot list.
func DecodeLots(r io.Reader, format string) ([]model.Lot, error) {
	var lf LotFile
	switch strings.ToLower(format) {
	case "yaml", "yml":
		dec := yaml.NewDecoder(r)
		if err := dec.Decode(&lf); err != nil {
			return nil, err
		}
	case "json":
		dec := json.NewDecoder(r)
		if err := dec.Decode(&lf); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	if len(lf.Lots) == 0 {
		return nil, fmt.Errorf("no lots in input")
	}
	lots := make([]model.Lot, 0, len(lf.Lots))
	for _, s := range lf.Lots {
		l, err := s.Lot()
		if err != nil {
			return nil, err
		}
		lots = append(lots, l)
	}
	return lots, nil
}

// Lot converts the file representation into a model lot.
func (s LotSpec) Lot() (model.Lot, error) {
	anchor, err := time.Parse("2006-01-02", s.Anchor)
	if err != nil {
		return model.Lot{}, fmt.Errorf("lot %s: invalid anchor %q: %w", s.ID, s.Anchor, err)
	}
	var proto model.Protocol
	switch {
	case len(s.ProtocolDays) > 0:
		name := s.Protocol
		if name == "" {
			name = "custom"
		}
		proto, err = model.NewProtocol(name, s.ProtocolDays...)
		if err != nil {
			return model.Lot{}, fmt.Errorf("lot %s: %w", s.ID, err)
		}
	case s.Protocol != "":
		var ok bool
		proto, ok = model.ProtocolByName(s.Protocol)
		if !ok {
			return model.Lot{}, fmt.Errorf("lot %s: unknown protocol %q", s.ID, s.Protocol)
		}
	default:
		proto = model.ProtocolStandard
	}
	name := s.Name
	if name == "" {
		name = s.ID
	}
	return model.Lot{
		ID:        s.ID,
		Name:      name,
		Anchor:    anchor.UTC(),
		Protocol:  proto,
		RoundGaps: append([]int(nil), s.RoundGaps...),
		Animals:   s.Animals,
		Locked:    s.Locked,
	}, nil
}

// WriteLots writes the lots back out in the input file format.
func WriteLots(w io.Writer, format string, lots []model.Lot) error {
	lf := LotFile{Lots: make([]LotSpec, 0, len(lots))}
	for _, l := range lots {
		lf.Lots = append(lf.Lots, Spec(l))
	}
	switch strings.ToLower(format) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		defer func() { _ = enc.Close() }()
		return enc.Encode(lf)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(lf)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// Spec converts a model lot back into its file representation, used when
// writing adjusted schedules out.
func Spec(l model.Lot) LotSpec {
	return LotSpec{
		ID:           l.ID,
		Name:         l.Name,
		Anchor:       l.Anchor.Format("2006-01-02"),
		Protocol:     l.Protocol.Name,
		ProtocolDays: l.Protocol.Offsets(),
		RoundGaps:    append([]int(nil), l.RoundGaps...),
		Animals:      l.Animals,
		Locked:       l.Locked,
	}
}
