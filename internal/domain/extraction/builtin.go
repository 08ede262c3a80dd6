package extraction

// Builtin returns the registry of suppliers shipped with the binary. The
// rule tables were lifted from the historical per-supplier configuration;
// external deployments override them with a TOML registry file.
func Builtin() *Registry {
	r, err := NewRegistry(builtinConfig)
	if err != nil {
		// The builtin table is compiled into the binary; a bad pattern is a
		// programming error, not a runtime condition.
		panic("extraction: builtin registry: " + err.Error())
	}
	return r
}

var builtinConfig = Config{
	Suppliers: []SupplierConfig{
		{
			Name: "MAG Dystrybucja",
			Fields: []FieldConfig{
				{Name: "invoice_number", Primary: `nr\s*\(S\)FS-([A-Z0-9/_]+)`},
				{Name: "issue_date", Primary: `Data wystawienia:\s*(\d{4}-\d{2}-\d{2})`},
				{Name: "sale_date", Primary: `Data sprzedaży:\s*(\d{4}-\d{2}-\d{2})`},
				{Name: "store_code", Primary: `SKL(?:EP)?[.\s]+(\d{3,4})`},
				{
					Name:        "order_number",
					Primary:     `(?i)(?:Zamówienia:.*?|zam\s*)(\d{8})`,
					Alternative: `(?i)zam\s*(\d{8})`,
				},
				{Name: "payment_due", Primary: `(?s)Forma płatności.*?\s+(\d{4}-\d{2}-\d{2})`},
				{Name: "vat_5", Primary: `W tym:\s*5%\s*([\d\s,]+)`, Class: "numeric"},
				{Name: "vat_23", Primary: `23% \s*([\d\s,]+)`, Class: "numeric"},
				{Name: "gross_amount", Primary: `Razem do zapłaty:\s*([\d\s,]+)`, Class: "numeric"},
			},
		},
		{
			Name: "AN-BA",
			Fields: []FieldConfig{
				{Name: "invoice_number", Primary: `Faktura VAT\s+([\w/-]+)`},
				{Name: "issue_date", Primary: `www\.facebook\.com/people/AN-BA\s*\n?(\d{4}-\d{2}-\d{2})`},
				{Name: "sale_date", Primary: `NIP:\s*957-095-88-16,\s*biuro@an-ba\.pl\s*\n?(\d{4}-\d{2}-\d{2})`},
				{
					Name:        "order_number",
					Primary:     `Uwagi\s*do\s*dokumentu:\s*(?:zam\.?\s*)?(\d+)`,
					Alternative: `(?i)Numer\s*zamówienia\s*:\s*(\d+)`,
				},
				{Name: "payment_due", Primary: `W\s*terminie:\s*\d+\s*dni\s*=\s*(\d{4}-\d{2}-\d{2})`},
				{
					Name:    "vat_23",
					Primary: `Podstawowy\s*podatek\s*VAT\s*23%\s*([\d\s,]+)\s*([\d\s,]+)\s*([\d\s,]+)`,
					Class:   "numeric",
				},
				{Name: "gross_amount", Primary: `Razem do zapłaty:\s*([\d\s,]+)`, Class: "numeric"},
				{Name: "store_code", Primary: `ID[:\s]+(\d{3,4})`},
			},
		},
	},
}
