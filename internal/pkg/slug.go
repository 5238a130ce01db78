package pkg

import (
	"strings"
	"unicode"
)

// Slugify 社区名转 slug："Rust Fans" -> "rust-fans"
// 重名去重（加数字后缀）由仓储层在事务里处理
func Slugify(name string) string {
	var b strings.Builder
	prevDash := true // 抑制开头的 '-'
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		case !prevDash:
			b.WriteByte('-')
			prevDash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
