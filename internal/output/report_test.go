package output_test

import (
	"bytes"
	"testing"

	stddec "github.com/shopspring/decimal"

	"github.com/rpgo/fiscal-engine/internal/output"
)

func TestFormatters(t *testing.T) {
	if got := output.FormatCurrency(stddec.NewFromFloat(1234.567)); got != "1,234.57 €" {
		t.Fatalf("FormatCurrency = %q", got)
	}
	if got := output.FormatCurrency(stddec.NewFromInt(-50)); got != "-50.00 €" {
		t.Fatalf("FormatCurrency negative = %q", got)
	}
	if got := output.FormatPercentage(stddec.NewFromFloat(0.1234)); got != "12.34%" {
		t.Fatalf("FormatPercentage = %q", got)
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	if err := output.Render(&buf, &output.Report{Year: 2024}, "json"); err != nil {
		t.Fatalf("Render json error: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"year": 2024`)) {
		t.Fatalf("unexpected json: %s", buf.String())
	}

	if err := output.Render(&buf, &output.Report{Year: 2024}, "xml"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}
