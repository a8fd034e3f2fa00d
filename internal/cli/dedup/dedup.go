// Package dedup находит повторные захваты одного и того же текста и сливает их.
package dedup

import (
	"time"

	"ClipSync/internal/cli/model"
	"ClipSync/internal/cli/textnorm"
)

// CalculateHash: отпечаток нормализованного текста или "", если текст пуст.
func CalculateHash(text string) string {
	norm := textnorm.Normalize(text)
	if norm == "" {
		return ""
	}
	return textnorm.Hash(norm)
}

// FindDuplicateIndex возвращает индекс первого клипа с тем же отпечатком или -1.
// Сохранённый hash используется, если он есть; иначе отпечаток считается по тексту.
// nil-элементы пропускаются.
func FindDuplicateIndex(clips []*model.Clip, text string) int {
	target := CalculateHash(text)
	if target == "" || len(clips) == 0 {
		return -1
	}
	for i, c := range clips {
		if c == nil {
			continue
		}
		h := c.Hash
		if h == "" {
			h = textnorm.Hash(textnorm.Normalize(c.Text))
		}
		if h == target {
			return i
		}
	}
	return -1
}

// MergeDuplicate возвращает новый клип: счётчик +1, updatedAt = now,
// теги: объединение (сначала существующие), пустые теги отбрасываются.
func MergeDuplicate(existing model.Clip, tags []string, now time.Time) model.Clip {
	merged := existing.Clone()
	merged.DupCount = existing.Count() + 1
	merged.UpdatedAt = model.Int64Ptr(now.UnixMilli())
	if merged.Hash == "" {
		merged.Hash = CalculateHash(existing.Text)
	}
	merged.Tags = UnionTags(existing.Tags, tags)
	return merged
}

// UnionTags объединяет наборы тегов с сохранением порядка первого появления.
func UnionTags(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, t := range list {
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
