package domain

// Clone returns a deep copy of the workout tree; ids are preserved.
func (w Workout) Clone() Workout {
	out := w
	if w.Weeks != nil {
		out.Weeks = make([]Week, len(w.Weeks))
		for i, week := range w.Weeks {
			out.Weeks[i] = week.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the week and everything it owns.
func (wk Week) Clone() Week {
	out := wk
	if wk.Days != nil {
		out.Days = make([]Day, len(wk.Days))
		for i, day := range wk.Days {
			out.Days[i] = day.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the day and its exercises.
func (d Day) Clone() Day {
	out := d
	if d.Exercises != nil {
		out.Exercises = make([]Exercise, len(d.Exercises))
		copy(out.Exercises, d.Exercises)
	}
	return out
}

// Clone copies the profile including the watermark flag.
func (p CoachProfile) Clone() CoachProfile {
	out := p
	if p.ShowWatermark != nil {
		show := *p.ShowWatermark
		out.ShowWatermark = &show
	}
	return out
}
