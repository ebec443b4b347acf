package domain

// DefaultPDFLineColor is used when the profile does not pick a colour.
const DefaultPDFLineColor = "#000000"

// CoachProfile holds the single active coach's branding, contact and export preferences.
// At most one exists; creating a new one replaces the previous profile entirely.
type CoachProfile struct {
	ID        string `bson:"_id" json:"id"`
	Name      string `bson:"name" json:"name" validate:"required"`
	Email     string `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Phone     string `bson:"phone,omitempty" json:"phone,omitempty"`
	Bio       string `bson:"bio,omitempty" json:"bio,omitempty"`
	Logo      string `bson:"logo,omitempty" json:"logo,omitempty"` // data URL or bare base64
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
	Facebook  string `bson:"facebook,omitempty" json:"facebook,omitempty"`
	Website   string `bson:"website,omitempty" json:"website,omitempty"`
	// ExportPath is only a hint prefixed to suggested filenames.
	ExportPath    string `bson:"exportPath,omitempty" json:"exportPath,omitempty"`
	PDFLineColor  string `bson:"pdfLineColor" json:"pdfLineColor" validate:"omitempty,hexcolor"`
	ShowWatermark *bool  `bson:"showWatermark" json:"showWatermark"`
}

// ApplyDefaults fills the optional PDF settings.
func (p *CoachProfile) ApplyDefaults() {
	if p.PDFLineColor == "" {
		p.PDFLineColor = DefaultPDFLineColor
	}
	if p.ShowWatermark == nil {
		show := true
		p.ShowWatermark = &show
	}
}

// WatermarkEnabled reports the effective watermark setting (default true).
func (p *CoachProfile) WatermarkEnabled() bool {
	return p.ShowWatermark == nil || *p.ShowWatermark
}
