package explain

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/ashureev/quadlab/internal/render"
	"golang.org/x/text/language"
)

const promptVI = `Bạn là một giáo viên dạy toán giỏi và thân thiện.
Hãy giải thích chi tiết từng bước cách giải phương trình bậc hai sau đây:
{{.A}}x² + {{.B}}x + {{.C}} = 0

Hãy trình bày rõ ràng:
1. Xác định các hệ số a, b, c.
2. Tính biệt thức Delta (Δ).
3. Biện luận số nghiệm dựa trên Delta.
4. Tính các nghiệm (nếu có).

Sử dụng định dạng Markdown để trình bày công thức toán học cho dễ đọc.
Giọng văn khuyến khích, dễ hiểu cho học sinh cấp 3.
`

const promptEN = `You are a skilled and friendly math teacher.
Explain step by step how to solve the following quadratic equation:
{{.A}}x² + {{.B}}x + {{.C}} = 0

Present clearly:
1. Identify the coefficients a, b, c.
2. Compute the discriminant Delta (Δ).
3. Discuss the number of roots based on Delta.
4. Compute the roots (if any).

Use Markdown to lay out the formulas so they are easy to read.
Keep the tone encouraging and easy to follow for high-school students.
`

var prompts = map[language.Tag]*template.Template{
	language.Vietnamese: template.Must(template.New("vi").Parse(promptVI)),
	language.English:    template.Must(template.New("en").Parse(promptEN)),
}

// BuildPrompt renders the instruction prompt for req. Unsupported languages
// use the Vietnamese template.
func BuildPrompt(req Request) (string, error) {
	tmpl, ok := prompts[req.Lang]
	if !ok {
		tmpl = prompts[language.Vietnamese]
	}

	c := req.Coefficients
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, struct{ A, B, C string }{
		A: render.Number(c.A),
		B: render.Number(c.B),
		C: render.Number(c.C),
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}
