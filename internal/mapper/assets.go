package mapper

import (
	"encoding/json"
	"strings"

	"github.com/studyhub/internal/model"
)

type rawImage struct {
	Type  string  `json:"_type"`
	Ref   *string `json:"ref"`
	Alt   *string `json:"alt"`
	Asset *struct {
		Ref *string `json:"_ref"`
		URL *string `json:"url"`
	} `json:"asset"`
	URL *string `json:"url"`
}

// parseImage accepts a plain URL string or an image object carrying an asset reference.
// Anything else is treated as absent.
func parseImage(raw json.RawMessage) *model.ImageSource {
	if isNull(raw) {
		return nil
	}

	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		plain = strings.TrimSpace(plain)
		if plain == "" {
			return nil
		}
		img := model.URLImage(plain, nil)
		return &img
	}

	var obj rawImage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	alt := optString(obj.Alt)

	if ref := optString(obj.Ref); ref != nil {
		img := model.AssetImage(*ref, alt)
		return &img
	}
	if obj.Asset != nil {
		if ref := optString(obj.Asset.Ref); ref != nil {
			img := model.AssetImage(*ref, alt)
			return &img
		}
		if u := optString(obj.Asset.URL); u != nil {
			img := model.URLImage(*u, alt)
			return &img
		}
	}
	if u := optString(obj.URL); u != nil {
		img := model.URLImage(*u, alt)
		return &img
	}
	return nil
}

type blockHeader struct {
	Type string `json:"_type"`
	Key  string `json:"_key"`
}

// parseBlocks keeps rich-text blocks opaque and in order. Only the _type/_key header is read.
func parseBlocks(raw []json.RawMessage) []model.Block {
	if len(raw) == 0 {
		return nil
	}
	blocks := make([]model.Block, 0, len(raw))
	for _, element := range raw {
		if isNull(element) {
			continue
		}
		var header blockHeader
		_ = json.Unmarshal(element, &header)
		blocks = append(blocks, model.Block{
			Key:  header.Key,
			Type: header.Type,
			Kind: model.KindForType(header.Type),
			Raw:  append(json.RawMessage(nil), element...),
		})
	}
	return blocks
}
