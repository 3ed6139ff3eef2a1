package prompt

import "strings"

// visualHints are words suggesting a question is about how the item looks,
// which the stored analysis may not answer.
var visualHints = []string{
	"color", "colour", "look", "looks", "see", "photo", "picture", "image",
	"shape", "pattern", "logo", "scratch", "stain", "damage", "condition", "detail",
	"顏色", "颜色", "圖片", "图片", "照片", "外觀", "外观", "樣子", "样子",
	"形狀", "形状", "圖案", "图案", "瑕疵", "刮痕", "細節", "细节", "看看",
}

// WantsImage reports whether message looks like a question about the
// item's appearance.
func WantsImage(message string) bool {
	lower := strings.ToLower(message)
	for _, hint := range visualHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}
