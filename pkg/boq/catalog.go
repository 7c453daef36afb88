package boq

// Catalog returns the fixed, ordered extraction phases. Ordering by ID
// defines the strict phase sequence; no two modules ever run concurrently.
func Catalog() []Module {
	return []Module{
		{
			ID:          1,
			Title:       "Preliminary Works",
			ArabicTitle: "الأعمال التحضيرية",
			Instructions: `PHASE: PRELIMINARY WORKS (The Setup)
1. **Site Fencing**: Search for "Site Plan". Find "PLOT LIMIT" or Boundary Line. Calculate Perimeter. Unit: m.l.
2. **Mobilization**: Search "General Notes" for "Site Office". Unit: LS (Lump Sum).
3. **Utilities**: Look for "Temporary Electricity/Water" notes.`,
		},
		{
			ID:          2,
			Title:       "Substructure",
			ArabicTitle: "أعمال الحفر والخرسانة أسفل الأرض",
			Instructions: `PHASE: EARTHWORKS & SUBSTRUCTURE (The Underground)
1. **Footings**: Cross-reference "Foundation Layout" with "Foundation Schedule".
2. **PCC/Blinding**: Detect thickness (usually 10cm). Formula: (L+0.2)*(W+0.2)*Thickness.
3. **Excavation**: (Footing Area + 1.0m offset) * (Depth from Ground to Bottom of PCC).
4. **Neck Columns**: Height = Top of Footing to Ground Beam.`,
		},
		{
			ID:          3,
			Title:       "Superstructure",
			ArabicTitle: "أعمال الخرسانة فوق الأرض",
			Instructions: `PHASE: SUPERSTRUCTURE (The Skeleton)
1. **The Truth Rule (CRITICAL)**: If dimensions differ between Arch (A) and Struct (S), prioritize STRUCTURAL for concrete.
2. **Slabs**: Search "Slab Layout". Identify labels (S=150, T=200). Area * Thickness.
3. **Beam Deduction**: If Beam Depth (60cm) > Slab (20cm), only calculate the "Drop" (40cm).
4. **Columns**: Scan "Column Schedule" and count on plan.`,
		},
		{
			ID:          4,
			Title:       "Masonry Works",
			ArabicTitle: "أعمال الطابوق",
			Instructions: `PHASE: MASONRY & OPENINGS (The Shell)
1. **Wall Trace**: Trace wall lines. Distinguish 20cm (Ext) vs 10cm (Int).
2. **Deductions**: Search tags (W1, D1). Go to Door Schedule. Deduct (W*H) from Wall Area.
3. **Lintels**: For every opening, add Lintel Concrete (Width + 0.4m).`,
		},
		{
			ID:          5,
			Title:       "Waterproofing",
			ArabicTitle: "أعمال العزل",
			Instructions: `PHASE: WATERPROOFING
1. **Roof**: Calculate Roof Area (Flat). Add skirting (upturn 30cm).
2. **Wet Areas**: Bathrooms/Kitchens floor area.
3. **Substructure**: Footing surface area for bituminous coating.`,
		},
		{
			ID:          6,
			Title:       "Finishes & Openings",
			ArabicTitle: "التشطيبات والفتحات",
			Instructions: `PHASE: FINISHES (Vision & Color)
1. **Room Mapping**: Read "Room Name" on Plan -> "Finish Schedule".
2. **Flooring**: Area inside rooms.
3. **Skirting**: Room Perimeter - Door Widths.
4. **Walls**: (Perimeter * Height) - Openings.`,
		},
	}
}
