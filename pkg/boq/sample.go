package boq

// SampleItems is the fixed local dataset used by the simulation path when no
// API credential is configured. Categories match the Arabic module titles so
// the simulator can filter per phase.
func SampleItems() []Item {
	return []Item{
		{
			ID:          1,
			Category:    "الأعمال التحضيرية",
			Description: "سياج مؤقت (Chain Link Fencing)",
			Unit:        "m.l",
			Count:       1,
			Dimensions:  Dimensions{Length: 120},
			Total:       120,
			Remarks:     "Perimeter calculation from PLOT LIMIT on A010.",
			Confidence:  Confidence{Overall: 0.98, CountAccuracy: 1.0, DimensionExtraction: 0.96},
			Breakdown:   "Perimeter = (30m x 2) + (30m x 2)",
			SourceFile:  "A-01 Site Plan.pdf",
		},
		{
			ID:          2,
			Category:    "أعمال الحفر والخرسانة أسفل الأرض",
			Description: "حفر الموقع حتى منسوب -2.50م",
			Unit:        "m³",
			Count:       1,
			Total:       1450,
			Remarks:     "Includes 1.0m working space offset around footings.",
			Confidence:  Confidence{Overall: 0.88, CountAccuracy: 1.0, DimensionExtraction: 0.88},
			Breakdown:   "Area(580m2) * Depth(2.5m)",
			SourceFile:  "S-01 Excavation.pdf",
		},
		{
			ID:          3,
			Category:    "أعمال الحفر والخرسانة أسفل الأرض",
			Description: "أعمال نزح المياه (Dewatering)",
			Unit:        "Item",
			Count:       1,
			Total:       1,
			Remarks:     "Required as Excavation depth > 1.5m and Water Table noted at -1.2m",
			Confidence:  Confidence{Overall: 0.95, CountAccuracy: 1.0, DimensionExtraction: 0.95},
			Breakdown:   "Lump Sum based on Section A-A",
			SourceFile:  "Geotechnical Report",
		},
		{
			ID:          4,
			Category:    "أعمال الخرسانة فوق الأرض",
			Description: "بلاطة خرسانية مصمتة (Solid Slab S=150mm)",
			Unit:        "m³",
			Count:       1,
			Dimensions:  Dimensions{Length: 20, Width: 15, Height: 0.15},
			Deduction:   4.5,
			Total:       40.5,
			Remarks:     "Deducted Staircase void (3x1.5m).",
			Confidence:  Confidence{Overall: 0.92, CountAccuracy: 1.0, DimensionExtraction: 0.92},
			Breakdown:   "(20*15*0.15) - Void(3*1.5*0.15)",
			SourceFile:  "S-10 First Floor Slab.pdf",
		},
		{
			ID:          5,
			Category:    "أعمال الطابوق",
			Description: "جدران بلوك خارجي معزول سماكة 20 سم",
			Unit:        "m²",
			Count:       1,
			Dimensions:  Dimensions{Length: 150, Width: 1, Height: 3.5},
			Deduction:   45,
			Total:       480,
			Remarks:     "Deducted 12 Windows (1.5x2.0) and 2 Doors.",
			Confidence:  Confidence{Overall: 0.75, CountAccuracy: 0.9, DimensionExtraction: 0.70},
			Breakdown:   "Gross(150*3.5) - Openings(45)",
			SourceFile:  "A-05 Floor Plan.pdf",
		},
		{
			ID:          6,
			Category:    "أعمال الطابوق",
			Description: "أعمدة تقوية رأسية (Stiffener Columns)",
			Unit:        "m³",
			Count:       8,
			Dimensions:  Dimensions{Length: 0.2, Width: 0.2, Height: 3.5},
			Total:       1.12,
			Remarks:     "Added for wall spans > 4.0m.",
			Confidence:  Confidence{Overall: 0.60, CountAccuracy: 0.6, DimensionExtraction: 0.9},
			Breakdown:   "8 No * (0.2*0.2*3.5)",
			SourceFile:  "S-General Notes.pdf",
		},
	}
}
