package model

import (
	"bytes"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// bundleFormatVersion 是模型包二进制格式版本，不兼容的修改需要递增。
const bundleFormatVersion = 1

// bundleWire 是模型包的序列化形态。编码器只存词表，下标即词表顺序。
type bundleWire struct {
	Version        int                 `msgpack:"version"`
	Pathway        string              `msgpack:"pathway"`
	ClassifierKind string              `msgpack:"classifier_kind"`
	NaiveBayes     *NaiveBayes         `msgpack:"naive_bayes,omitempty"`
	FeatureClasses map[string][]string `msgpack:"feature_classes"`
	LabelClasses   []string            `msgpack:"label_classes"`
	FeatureOrder   []string            `msgpack:"feature_order"`
	CatalogColumns []string            `msgpack:"catalog_columns"`
	CatalogRows    [][]string          `msgpack:"catalog_rows"`
	TrainedAt      time.Time           `msgpack:"trained_at"`
}

// EncodeBundle 把模型包编码为 msgpack。
func EncodeBundle(b *Bundle) ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	w := bundleWire{
		Version:        bundleFormatVersion,
		Pathway:        b.Pathway,
		ClassifierKind: b.Classifier.Name(),
		FeatureClasses: make(map[string][]string, len(b.FeatureEncoders)),
		LabelClasses:   b.LabelEncoder.Classes(),
		FeatureOrder:   append([]string(nil), b.FeatureOrder...),
		CatalogColumns: b.Catalog.Columns,
		CatalogRows:    b.Catalog.Rows,
		TrainedAt:      b.TrainedAt.UTC(),
	}
	switch c := b.Classifier.(type) {
	case *NaiveBayes:
		w.NaiveBayes = c
	default:
		return nil, fmt.Errorf("bundle: classifier %q cannot be serialized", b.Classifier.Name())
	}
	for name, enc := range b.FeatureEncoders {
		w.FeatureClasses[name] = enc.Classes()
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(&w); err != nil {
		return nil, fmt.Errorf("bundle: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeBundle 解码并校验模型包；任何形状不一致都视为损坏。
func DecodeBundle(data []byte) (*Bundle, error) {
	var w bundleWire
	if err := msgpack.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("bundle: decode: %w", err)
	}
	if w.Version != bundleFormatVersion {
		return nil, fmt.Errorf("bundle: unsupported format version %d", w.Version)
	}

	b := &Bundle{
		Pathway:         w.Pathway,
		FeatureEncoders: make(map[string]*LabelEncoder, len(w.FeatureClasses)),
		LabelEncoder:    newLabelEncoderSorted(w.LabelClasses),
		FeatureOrder:    w.FeatureOrder,
		TrainedAt:       w.TrainedAt,
	}
	for name, classes := range w.FeatureClasses {
		b.FeatureEncoders[name] = newLabelEncoderSorted(classes)
	}

	switch w.ClassifierKind {
	case "naive_bayes":
		if w.NaiveBayes == nil {
			return nil, fmt.Errorf("bundle: missing naive bayes parameters")
		}
		if err := w.NaiveBayes.Validate(); err != nil {
			return nil, err
		}
		if len(w.NaiveBayes.Cardinality) != len(w.FeatureOrder) {
			return nil, fmt.Errorf("bundle: classifier expects %d features, feature order has %d",
				len(w.NaiveBayes.Cardinality), len(w.FeatureOrder))
		}
		b.Classifier = w.NaiveBayes
	default:
		return nil, fmt.Errorf("bundle: unknown classifier kind %q", w.ClassifierKind)
	}

	catalog, err := NewCatalog(w.CatalogColumns, w.CatalogRows, "")
	if err != nil {
		return nil, fmt.Errorf("bundle: %w", err)
	}
	b.Catalog = catalog

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}
