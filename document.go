// Copyright 2026 The unityasset Authors.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package unityasset

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/silvertip-oss/unityasset/internal/log"
)

// Options configures a LoadDocument call. The zero value
// is ready to use: Fast defaults off, MaxObjectCount defaults
// unlimited, Logger defaults to a filtered stderr logger.
type Options struct {
	// Fast skips object interpretation entirely, returning
	// UnityClass records with class_id/class_name/anchor but no
	// properties. Useful for a quick inventory of a large bundle.
	Fast bool

	// MaxObjectCount caps the number of objects interpreted across the
	// whole document; 0 means unlimited. Exists so a caller inspecting an
	// untrusted file can bound work without pre-scanning it.
	MaxObjectCount uint32

	Logger log.Logger
}

func (o *Options) logger() log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.DefaultStderr()
}

// UnityClass is one decoded object: its identity plus an ordered
// property mapping.
type UnityClass struct {
	ClassID    int32    `json:"class_id"`
	ClassName  string   `json:"class_name"`
	Anchor     string   `json:"anchor"`
	PathID     int64    `json:"path_id"`
	HasPathID  bool     `json:"has_path_id"`
	Properties *Mapping `json:"properties,omitempty"`
}

// Get returns property key's value and whether it was present.
func (c *UnityClass) Get(key string) (Value, bool) {
	if c.Properties == nil {
		return Value{}, false
	}
	return c.Properties.Get(key)
}

// AsString returns property key as a string.
func (c *UnityClass) AsString(key string) (string, error) {
	v, ok := c.Get(key)
	if !ok {
		return "", wrapErr(KindCorrupt, fmt.Sprintf("missing property %q", key), nil)
	}
	return v.AsString()
}

// AsI64 returns property key as an int64.
func (c *UnityClass) AsI64(key string) (int64, error) {
	v, ok := c.Get(key)
	if !ok {
		return 0, wrapErr(KindCorrupt, fmt.Sprintf("missing property %q", key), nil)
	}
	return v.AsI64()
}

// AsF64 returns property key as a float64.
func (c *UnityClass) AsF64(key string) (float64, error) {
	v, ok := c.Get(key)
	if !ok {
		return 0, wrapErr(KindCorrupt, fmt.Sprintf("missing property %q", key), nil)
	}
	return v.AsF64()
}

// AsBool returns property key as a bool.
func (c *UnityClass) AsBool(key string) (bool, error) {
	v, ok := c.Get(key)
	if !ok {
		return false, wrapErr(KindCorrupt, fmt.Sprintf("missing property %q", key), nil)
	}
	return v.AsBool()
}

// AsArray returns property key as a value sequence.
func (c *UnityClass) AsArray(key string) ([]Value, error) {
	v, ok := c.Get(key)
	if !ok {
		return nil, wrapErr(KindCorrupt, fmt.Sprintf("missing property %q", key), nil)
	}
	return v.AsArray()
}

// AsObject returns property key as a nested mapping.
func (c *UnityClass) AsObject(key string) (*Mapping, error) {
	v, ok := c.Get(key)
	if !ok {
		return nil, wrapErr(KindCorrupt, fmt.Sprintf("missing property %q", key), nil)
	}
	return v.AsObject()
}

// AsBytes returns property key as a raw byte buffer.
func (c *UnityClass) AsBytes(key string) ([]byte, error) {
	v, ok := c.Get(key)
	if !ok {
		return nil, wrapErr(KindCorrupt, fmt.Sprintf("missing property %q", key), nil)
	}
	return v.AsBytes()
}

// Name is a convenience accessor for the near-universal m_Name property.
func (c *UnityClass) Name() (string, bool) {
	s, err := c.AsString("m_Name")
	if err != nil {
		return "", false
	}
	return s, true
}

// Document is the top-level result of loading a bundle or serialized
// file: every decoded UnityClass plus enough metadata to resolve
// streaming resources.
type Document struct {
	SourcePath     string `json:"source_path,omitempty"`
	EngineVersion  string `json:"engine_version"`
	TargetPlatform int32  `json:"target_platform"`

	classes []*UnityClass
	files   map[string][]byte // embedded file name -> decompressed bytes, for streaming lookups

	Anomalies []anomaly `json:"anomalies,omitempty"`
}

// MarshalJSON renders a Document as its metadata plus its classes, the
// shape a CLI `--json` dump exposes.
func (d *Document) MarshalJSON() ([]byte, error) {
	type alias Document
	return json.Marshal(struct {
		*alias
		Classes []*UnityClass `json:"classes"`
	}{alias: (*alias)(d), Classes: d.classes})
}

// Classes returns every UnityClass in the document, in source order.
func (d *Document) Classes() []*UnityClass { return d.classes }

// FileNames returns the names of every embedded file the document can
// resolve streaming resources against.
func (d *Document) FileNames() []string {
	names := make([]string, 0, len(d.files))
	for name := range d.files {
		names = append(names, name)
	}
	return names
}

// EmbeddedFile returns the bytes of a named embedded file and whether it
// was found.
func (d *Document) EmbeddedFile(name string) ([]byte, bool) {
	b, ok := d.files[name]
	return b, ok
}

// Resolver returns a ResourceResolver backed by this document's embedded
// files, for texture streaming-data reads.
func (d *Document) Resolver() ResourceResolver {
	return func(path string, offset uint64, size uint32) ([]byte, error) {
		b, ok := d.files[baseName(path)]
		if !ok {
			return nil, fmt.Errorf("resource %q not embedded in this document", path)
		}
		end := offset + uint64(size)
		if end > uint64(len(b)) {
			return nil, wrapErr(KindOutOfRange, "streaming read exceeds resource size", ErrOutsideBoundary)
		}
		return b[offset:end], nil
	}
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[i+1:]
		}
	}
	return path
}

// LoadDocument dispatches on data's first bytes: a bundle signature
// enters the bundle container parser; the serialized-file header shape
// is parsed directly.
func LoadDocument(data []byte, opts Options) (*Document, error) {
	if len(data) == 0 {
		return nil, ErrInvalidSignature
	}

	logger := opts.logger()
	doc := &Document{files: make(map[string][]byte)}

	if looksLikeBundle(data) {
		bundle, err := ParseBundle(data, logger)
		if err != nil {
			return nil, err
		}
		doc.EngineVersion = bundle.EngineVersion
		doc.Anomalies = append(doc.Anomalies, bundle.Anomalies...)

		for _, ef := range bundle.Embedded {
			doc.files[ef.Name] = ef.Data
			if !looksLikeSerializedFile(ef.Name) {
				continue
			}
			if err := loadSerializedFileInto(doc, ef.Data, opts, logger); err != nil {
				doc.Anomalies = append(doc.Anomalies, anomaly{Message: "dropped serialized file " + ef.Name, Err: err})
				h := log.NewHelper(logger)
				h.Warnf("dropping embedded file %q: %v", ef.Name, err)
				continue
			}
		}
		return doc, nil
	}

	if err := loadSerializedFileInto(doc, data, opts, logger); err != nil {
		return nil, err
	}
	return doc, nil
}

// looksLikeBundle reports whether data's first bytes are one of the
// recognized bundle signatures.
func looksLikeBundle(data []byte) bool {
	for _, sig := range []string{sigUnityFS, sigUnityWeb, sigUnityRaw, sigUnityArchive} {
		if bytes.HasPrefix(data, []byte(sig)) {
			return true
		}
	}
	return false
}

func loadSerializedFileInto(doc *Document, data []byte, opts Options, logger log.Logger) error {
	sf, err := ParseSerializedFile(data, logger)
	if err != nil {
		return err
	}
	if doc.EngineVersion == "" {
		doc.EngineVersion = sf.EngineVersion
	}
	doc.TargetPlatform = sf.TargetPlatform

	for _, obj := range sf.Objects {
		if opts.MaxObjectCount != 0 && uint32(len(doc.classes)) >= opts.MaxObjectCount {
			break
		}

		uc := &UnityClass{
			ClassID:   obj.ClassID,
			ClassName: ClassName(obj.ClassID),
			Anchor:    fmt.Sprintf("&%d", obj.PathID),
			PathID:    obj.PathID,
			HasPathID: true,
		}

		if !opts.Fast {
			props, err := interpretObjectFromFile(sf, obj, logger)
			if err != nil {
				h := log.NewHelper(logger)
				h.Warnf("dropping object path_id=%d class=%s: %v", obj.PathID, uc.ClassName, err)
				doc.Anomalies = append(doc.Anomalies, anomaly{Message: fmt.Sprintf("object %d (%s)", obj.PathID, uc.ClassName), Err: err})
				continue
			}
			uc.Properties = props
		}

		doc.classes = append(doc.classes, uc)
	}

	return nil
}

func interpretObjectFromFile(sf *SerializedFile, obj *ObjectInfo, logger log.Logger) (*Mapping, error) {
	if int(obj.TypeTreeIndex) < 0 || int(obj.TypeTreeIndex) >= len(sf.Types) {
		return nil, wrapErr(KindOutOfRange, "object references an out-of-range type index", ErrOutsideBoundary)
	}
	st := sf.Types[obj.TypeTreeIndex]
	if st.TypeTree == nil {
		return nil, wrapErr(KindUnsupportedFormat, "serialized file has no type tree data", nil)
	}

	objBytes, err := sf.ObjectBytes(obj)
	if err != nil {
		return nil, err
	}

	r := NewReader(objBytes, sf.Endian)
	return InterpretObject(r, st.TypeTree)
}
