package model

import (
	"encoding/json"
	"fmt"
)

// ImageKind tags which variant an ImageSource holds.
type ImageKind string

const (
	// ImageAsset is an opaque content-store asset reference; resolving it is a rendering concern.
	ImageAsset ImageKind = "asset"
	// ImageURL is a plain, already displayable URL.
	ImageURL ImageKind = "url"
)

// ImageSource 图片来源：资源引用或直接 URL，二者互斥，调用方需按 Kind 分支处理。
type ImageSource struct {
	Kind     ImageKind
	AssetRef string
	URL      string
	Alt      *string
}

// AssetImage builds the asset-reference variant.
func AssetImage(ref string, alt *string) ImageSource {
	return ImageSource{Kind: ImageAsset, AssetRef: ref, Alt: alt}
}

// URLImage builds the plain-URL variant.
func URLImage(url string, alt *string) ImageSource {
	return ImageSource{Kind: ImageURL, URL: url, Alt: alt}
}

type imageSourceJSON struct {
	Kind ImageKind `json:"kind" yaml:"kind"`
	Ref  string    `json:"ref,omitempty" yaml:"ref,omitempty"`
	URL  string    `json:"url,omitempty" yaml:"url,omitempty"`
	Alt  *string   `json:"alt,omitempty" yaml:"alt,omitempty"`
}

func (i ImageSource) wire() (imageSourceJSON, error) {
	switch i.Kind {
	case ImageAsset:
		return imageSourceJSON{Kind: i.Kind, Ref: i.AssetRef, Alt: i.Alt}, nil
	case ImageURL:
		return imageSourceJSON{Kind: i.Kind, URL: i.URL, Alt: i.Alt}, nil
	default:
		return imageSourceJSON{}, fmt.Errorf("unknown image kind %q", i.Kind)
	}
}

// MarshalJSON encodes the variant as {"kind":"asset","ref":..} or {"kind":"url","url":..}.
func (i ImageSource) MarshalJSON() ([]byte, error) {
	w, err := i.wire()
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// MarshalYAML mirrors MarshalJSON.
func (i ImageSource) MarshalYAML() (interface{}, error) {
	return i.wire()
}

// BlockKind is the coarse variant of a rich-text block, derived only from its _type.
type BlockKind string

const (
	BlockText   BlockKind = "text"
	BlockImage  BlockKind = "image"
	BlockCode   BlockKind = "code"
	BlockCustom BlockKind = "custom"
)

// Block 富文本块。内容保持原样，由渲染层负责解释。
type Block struct {
	Key  string
	Type string
	Kind BlockKind
	Raw  json.RawMessage
}

// KindForType maps a block _type to its variant.
func KindForType(blockType string) BlockKind {
	switch blockType {
	case "block":
		return BlockText
	case "image":
		return BlockImage
	case "code":
		return BlockCode
	default:
		return BlockCustom
	}
}

// MarshalJSON emits the block exactly as the content store returned it.
func (b Block) MarshalJSON() ([]byte, error) {
	if len(b.Raw) == 0 {
		return []byte("null"), nil
	}
	return b.Raw, nil
}

// MarshalYAML emits the decoded raw block.
func (b Block) MarshalYAML() (interface{}, error) {
	if len(b.Raw) == 0 {
		return nil, nil
	}
	var v interface{}
	if err := json.Unmarshal(b.Raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
