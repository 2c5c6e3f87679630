package dynamo

// Snapshot is an owned copy of a Frame's positions and energies.
type Snapshot struct {
	Step      int     `json:"step"`
	Time      float64 `json:"time"`
	Pos       []Vec2  `json:"pos"`
	Potential float64 `json:"potential"`
	Kinetic   float64 `json:"kinetic"`
	Contacts  int     `json:"contacts"`
}

func (f Frame) Snapshot() Snapshot {
	return Snapshot{
		Step:      f.Step,
		Time:      f.Time,
		Pos:       append([]Vec2(nil), f.Pos...),
		Potential: f.Potential,
		Kinetic:   f.Kinetic,
		Contacts:  f.Contacts,
	}
}

func (s Snapshot) Energy() float64 { return s.Potential + s.Kinetic }

// Result collects a headless run.
type Result struct {
	Frames   []Snapshot         `json:"frames"`
	Metrics  map[string]float64 `json:"metrics"`
	Rejected int                `json:"rejected"`
}

// Heights returns the mean particle height of every frame.
func (r *Result) Heights() []float64 {
	out := make([]float64, len(r.Frames))
	for i, f := range r.Frames {
		if len(f.Pos) == 0 {
			continue
		}
		for _, p := range f.Pos {
			out[i] += p.Y
		}
		out[i] /= float64(len(f.Pos))
	}
	return out
}

func (r *Result) Energies() []float64 {
	out := make([]float64, len(r.Frames))
	for i, f := range r.Frames {
		out[i] = f.Energy()
	}
	return out
}

func (r *Result) Times() []float64 {
	out := make([]float64, len(r.Frames))
	for i, f := range r.Frames {
		out[i] = f.Time
	}
	return out
}
