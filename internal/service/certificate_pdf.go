package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

// CertificateData 证书 PDF 上打印的内容
type CertificateData struct {
	FullName    string
	CourseTitle string
	Score       *int
	Date        string
	Number      string
}

// 核心字体不含土耳其语字符，按字母转写
var turkishReplacer = strings.NewReplacer(
	"ğ", "g", "Ğ", "G",
	"ü", "u", "Ü", "U",
	"ş", "s", "Ş", "S",
	"ı", "i", "İ", "I",
	"ç", "c", "Ç", "C",
	"ö", "o", "Ö", "O",
)

func transliterate(s string) string {
	return turkishReplacer.Replace(s)
}

type rgb struct{ r, g, b int }

var (
	colorNavy      = rgb{0x1a, 0x36, 0x5d}
	colorGold      = rgb{0xd6, 0x9e, 0x2e}
	colorLightBlue = rgb{0xeb, 0xf8, 0xff}
	colorDarkGray  = rgb{0x2d, 0x37, 0x48}
	colorBlue      = rgb{0x31, 0x82, 0xce}
)

// RenderCertificatePDF 生成横版 A4 证书，单位为毫米
func RenderCertificatePDF(data CertificateData) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Certificate "+data.Number, false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	width, height := pdf.GetPageSize()
	const margin = 20.0

	pdf.SetDrawColor(colorGold.r, colorGold.g, colorGold.b)
	pdf.SetLineWidth(1.4)
	pdf.Rect(margin, margin, width-2*margin, height-2*margin, "D")

	pdf.SetDrawColor(colorNavy.r, colorNavy.g, colorNavy.b)
	pdf.SetLineWidth(0.7)
	pdf.Rect(margin+5, margin+5, width-2*margin-10, height-2*margin-10, "D")

	centered := func(y float64, style string, size float64, c rgb, text string) {
		pdf.SetFont("Helvetica", style, size)
		pdf.SetTextColor(c.r, c.g, c.b)
		pdf.SetXY(margin, y)
		pdf.CellFormat(width-2*margin, size*0.5, transliterate(text), "", 0, "C", false, 0, "")
	}

	centered(40, "B", 32, colorNavy, "EGITIM SERTIFIKASI")
	centered(55, "", 14, colorNavy, "BASARI BELGESI")

	pdf.SetDrawColor(colorGold.r, colorGold.g, colorGold.b)
	pdf.SetLineWidth(1)
	pdf.Line(width/2-40, 65, width/2+40, 65)

	centered(78, "", 16, colorDarkGray, "Bu belge ile onaylanir ki")
	centered(95, "B", 24, colorNavy, strings.ToUpper(transliterate(data.FullName)))
	centered(110, "", 16, colorDarkGray, "asagidaki egitimi basariyla tamamlamistir ve")
	centered(118, "", 16, colorDarkGray, "yeterlilik kazanmistir.")

	course := transliterate(data.CourseTitle)
	pdf.SetFont("Helvetica", "B", 18)
	boxWidth := pdf.GetStringWidth(course) + 20
	if boxWidth < 80 {
		boxWidth = 80
	}
	if maxWidth := width - 2*margin - 20; boxWidth > maxWidth {
		boxWidth = maxWidth
	}
	pdf.SetFillColor(colorLightBlue.r, colorLightBlue.g, colorLightBlue.b)
	pdf.SetDrawColor(colorBlue.r, colorBlue.g, colorBlue.b)
	pdf.SetLineWidth(0.7)
	pdf.Rect((width-boxWidth)/2, 130, boxWidth, 15, "FD")
	centered(133, "B", 18, colorBlue, data.CourseTitle)

	if data.Score != nil {
		centered(155, "B", 16, colorGold, fmt.Sprintf("Basari Notu: %%%d", *data.Score))
	}

	footerY := height - margin - 15
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(colorDarkGray.r, colorDarkGray.g, colorDarkGray.b)
	pdf.SetXY(margin+5, footerY)
	pdf.CellFormat(100, 6, "Sertifika No: "+data.Number, "", 0, "L", false, 0, "")
	pdf.SetXY(width-margin-105, footerY)
	pdf.CellFormat(100, 6, "Tarih: "+data.Date, "", 0, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render certificate: %w", err)
	}
	return buf.Bytes(), nil
}
