package model

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Bundle 是一个 pathway 的完整推理包：分类器、每个特征的编码器、标签编码器、
// 分类器期望的特征顺序，以及用于找回描述信息的训练目录。
//
// Bundle 加载后只读；重新训练时整体替换（见 Registry.Swap），从不原地修改。
type Bundle struct {
	Pathway         string
	Classifier      Classifier
	FeatureEncoders map[string]*LabelEncoder
	LabelEncoder    *LabelEncoder
	FeatureOrder    []string
	Catalog         *Catalog
	TrainedAt       time.Time
}

// Validate 检查模型包内部一致性，加载与替换前都会调用。
func (b *Bundle) Validate() error {
	if b == nil {
		return errors.New("bundle: nil")
	}
	if b.Classifier == nil {
		return errors.New("bundle: missing classifier")
	}
	if b.LabelEncoder == nil || b.LabelEncoder.Len() == 0 {
		return errors.New("bundle: empty label encoder")
	}
	if n := b.Classifier.NumClasses(); n != b.LabelEncoder.Len() {
		return fmt.Errorf("bundle: classifier has %d classes, label encoder has %d", n, b.LabelEncoder.Len())
	}
	if len(b.FeatureOrder) == 0 {
		return errors.New("bundle: empty feature order")
	}
	for _, f := range b.FeatureOrder {
		enc, ok := b.FeatureEncoders[f]
		if !ok || enc == nil || enc.Len() == 0 {
			return fmt.Errorf("bundle: missing encoder for feature %q", f)
		}
	}
	if b.Catalog == nil || len(b.Catalog.Columns) == 0 {
		return errors.New("bundle: missing catalog")
	}
	return nil
}

// Encoder 返回特征编码器。
func (b *Bundle) Encoder(feature string) (*LabelEncoder, bool) {
	enc, ok := b.FeatureEncoders[feature]
	return enc, ok && enc != nil
}

type bundleCtxKey struct{}

// WithBundle 把模型包快照放进请求 context。
// 同一请求内的归一化与排序都从这里取，保证看到同一个模型包。
func WithBundle(ctx context.Context, b *Bundle) context.Context {
	return context.WithValue(ctx, bundleCtxKey{}, b)
}

// BundleFromContext 取出请求的模型包快照。
func BundleFromContext(ctx context.Context) (*Bundle, bool) {
	b, ok := ctx.Value(bundleCtxKey{}).(*Bundle)
	return b, ok && b != nil
}
