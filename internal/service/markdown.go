package service

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()

	markdownSyntaxPattern = regexp.MustCompile("(!?\\[[^\\]]*]\\([^)]*\\))|(`+)|([#>*_~-]+)")
	htmlTagPattern        = regexp.MustCompile(`<[^>]+>`)
)

// RenderMarkdown 将 Markdown 正文渲染为净化后的 HTML。
func RenderMarkdown(content string) (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return sanitizer.Sanitize(buf.String()), nil
}

// plainText 去除 Markdown 标记与 HTML 标签，得到近似纯文本。
func plainText(content string) string {
	text := markdownSyntaxPattern.ReplaceAllString(content, " ")
	text = htmlTagPattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// countWords 统计正文词数：空白分隔的词 + 单独计数的 CJK 字符。
func countWords(content string) int {
	text := plainText(content)
	if text == "" {
		return 0
	}

	words := 0
	inWord := false
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Han, r):
			words++
			inWord = false
		case unicode.IsSpace(r):
			inWord = false
		default:
			if !inWord {
				words++
				inWord = true
			}
		}
	}
	return words
}

// calculateReadingTime 以每分钟 200 词估算阅读时长，至少 1 分钟。
func calculateReadingTime(wordCount int) int {
	if wordCount <= 0 {
		return 0
	}

	minutes := wordCount / 200
	if wordCount%200 != 0 {
		minutes++
	}
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
