// Package export 将生成的计划以分页 markdown 文档写入磁盘
// Package export writes generated plans to disk as paginated markdown
// documents.
package export

import (
	"fmt"
	"os"
	"strings"
)

// linesPerPage 信纸式版面的分页阈值
const linesPerPage = 48

// Section 文档中带标题的一个区块
// Section is one titled block of a document.
type Section struct {
	Heading string
	Body    string
}

// Document 一次导出的渲染单元
// Document is a renderable export unit.
type Document struct {
	Title    string
	Sections []Section
}

// Writer 把 Document 序列化为分页 markdown
// Writer serializes a Document into paginated markdown.
type Writer struct {
	sb        strings.Builder
	lineCount int
	page      int
}

func NewWriter() *Writer {
	return &Writer{page: 1}
}

// WriteDocument 按顺序渲染标题和所有区块
// WriteDocument renders the title and every section in order.
func (w *Writer) WriteDocument(doc Document) {
	if doc.Title != "" {
		w.writeLine("# " + doc.Title)
		w.writeLine("")
	}
	for _, s := range doc.Sections {
		w.WriteSection(s)
	}
}

// WriteSection 渲染一个区块；当前页写满时先换页
// WriteSection renders one section, breaking the page when the current one
// is full.
func (w *Writer) WriteSection(s Section) {
	if s.Heading != "" {
		w.writeLine("## " + s.Heading)
		w.writeLine("")
	}
	for _, line := range strings.Split(s.Body, "\n") {
		w.writeLine(line)
	}
	w.writeLine("")
}

func (w *Writer) writeLine(line string) {
	if w.lineCount >= linesPerPage {
		w.sb.WriteString(fmt.Sprintf("\n---\n*Page %d*\n\n", w.page+1))
		w.page++
		w.lineCount = 0
	}
	w.sb.WriteString(line)
	w.sb.WriteString("\n")
	w.lineCount++
}

// String 返回已渲染的文档内容
func (w *Writer) String() string {
	return w.sb.String()
}

// WriteFile 渲染 doc 并写入 path
// WriteFile renders doc and writes it to path.
func WriteFile(path string, doc Document) error {
	w := NewWriter()
	w.WriteDocument(doc)
	if err := os.WriteFile(path, []byte(w.String()), 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}
