package domain

// WorkoutPatch is a partial update: nil fields are left untouched.
type WorkoutPatch struct {
	Name          *string `json:"name"`
	CoachName     *string `json:"coachName"`
	ClientName    *string `json:"clientName"`
	ClientID      *string `json:"clientId"`
	WorkoutType   *string `json:"workoutType"`
	Duration      *int    `json:"duration"`
	Description   *string `json:"description"`
	DietaryAdvice *string `json:"dietaryAdvice"`
	Weeks         *[]Week `json:"weeks"`
	// Version, when set, must match the stored version or the update is rejected.
	Version *int64 `json:"version"`
}

// Apply merges the non-nil fields onto w.
func (p WorkoutPatch) Apply(w *Workout) {
	setString(&w.Name, p.Name)
	setString(&w.CoachName, p.CoachName)
	setString(&w.ClientName, p.ClientName)
	setString(&w.ClientID, p.ClientID)
	setString(&w.WorkoutType, p.WorkoutType)
	setString(&w.Description, p.Description)
	setString(&w.DietaryAdvice, p.DietaryAdvice)
	if p.Duration != nil {
		w.Duration = *p.Duration
	}
	if p.Weeks != nil {
		w.Weeks = *p.Weeks
	}
}

// ClientPatch is a partial update of a Client.
type ClientPatch struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
	Notes *string `json:"notes"`
}

func (p ClientPatch) Apply(c *Client) {
	setString(&c.Name, p.Name)
	setString(&c.Email, p.Email)
	setString(&c.Phone, p.Phone)
	setString(&c.Notes, p.Notes)
}

// CoachProfilePatch is a partial update of the CoachProfile.
type CoachProfilePatch struct {
	Name          *string `json:"name"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Bio           *string `json:"bio"`
	Logo          *string `json:"logo"`
	Instagram     *string `json:"instagram"`
	Facebook      *string `json:"facebook"`
	Website       *string `json:"website"`
	ExportPath    *string `json:"exportPath"`
	PDFLineColor  *string `json:"pdfLineColor"`
	ShowWatermark *bool   `json:"showWatermark"`
}

func (p CoachProfilePatch) Apply(cp *CoachProfile) {
	setString(&cp.Name, p.Name)
	setString(&cp.Email, p.Email)
	setString(&cp.Phone, p.Phone)
	setString(&cp.Bio, p.Bio)
	setString(&cp.Logo, p.Logo)
	setString(&cp.Instagram, p.Instagram)
	setString(&cp.Facebook, p.Facebook)
	setString(&cp.Website, p.Website)
	setString(&cp.ExportPath, p.ExportPath)
	setString(&cp.PDFLineColor, p.PDFLineColor)
	if p.ShowWatermark != nil {
		show := *p.ShowWatermark
		cp.ShowWatermark = &show
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
