package route

// Manila builds the fixed Metro Manila rail network: the MRT-3, LRT-1 and
// LRT-2 lines with per-segment travel minutes and track meters. The
// returned graph is the planner's routing target and must not be mutated.
func Manila() *Graph {
	g := NewGraph()

	// MRT-3 (North ↔ South)
	g.AddEdge("North Ave", "Quezon Ave", 2, 1800)
	g.AddEdge("Quezon Ave", "GMA Kamuning", 2, 1600)
	g.AddEdge("GMA Kamuning", "Cubao MRT", 2, 1200)
	g.AddEdge("Cubao MRT", "Santolan Annapolis", 2, 1300)
	g.AddEdge("Santolan Annapolis", "Ortigas", 2, 2000)
	g.AddEdge("Ortigas", "Shaw Blvd", 2, 800)
	g.AddEdge("Shaw Blvd", "Boni", 2, 900)
	g.AddEdge("Boni", "Guadalupe", 2, 1000)
	g.AddEdge("Guadalupe", "Buendia MRT", 2, 2200)
	g.AddEdge("Buendia MRT", "Ayala", 2, 900)
	g.AddEdge("Ayala", "Magallanes", 2, 1200)
	g.AddEdge("Magallanes", "Taft Ave MRT", 2, 800)

	// LRT-1 (North ↔ South)
	g.AddEdge("Fernando Poe Jr", "Balintawak", 2, 2000)
	g.AddEdge("Balintawak", "Monumento", 2, 1200)
	g.AddEdge("Monumento", "5th Ave", 2, 900)
	g.AddEdge("5th Ave", "R. Papa", 2, 1000)
	g.AddEdge("R. Papa", "Abad Santos", 2, 900)
	g.AddEdge("Abad Santos", "Blumentritt LRT1", 2, 1100)
	g.AddEdge("Blumentritt LRT1", "Tayuman", 2, 700)
	g.AddEdge("Tayuman", "Bambang", 2, 600)
	g.AddEdge("Bambang", "Doroteo Jose", 2, 600)
	g.AddEdge("Doroteo Jose", "Carriedo", 2, 700)
	g.AddEdge("Carriedo", "Central Terminal", 2, 900)
	g.AddEdge("Central Terminal", "UN Ave", 2, 1000)
	g.AddEdge("UN Ave", "Pedro Gil", 2, 800)
	g.AddEdge("Pedro Gil", "Quirino", 2, 800)
	g.AddEdge("Quirino", "Vito Cruz", 2, 900)
	g.AddEdge("Vito Cruz", "Gil Puyat LRT1", 2, 1100)
	g.AddEdge("Gil Puyat LRT1", "Libertad", 2, 800)
	g.AddEdge("Libertad", "EDSA LRT1", 2, 900)
	g.AddEdge("EDSA LRT1", "Baclaran", 2, 700)
	g.AddEdge("Baclaran", "Redemptorist", 2, 900)
	g.AddEdge("Redemptorist", "MIA Road", 2, 1100)
	g.AddEdge("MIA Road", "Asia World", 2, 1200)

	// LRT-2 (West ↔ East)
	g.AddEdge("Recto", "Legarda", 2, 1300)
	g.AddEdge("Legarda", "Pureza", 2, 1200)
	g.AddEdge("Pureza", "V. Mapa", 2, 1400)
	g.AddEdge("V. Mapa", "J. Ruiz", 2, 1000)
	g.AddEdge("J. Ruiz", "Gilmore", 2, 900)
	g.AddEdge("Gilmore", "Betty Go-Belmonte", 2, 1000)
	g.AddEdge("Betty Go-Belmonte", "Cubao LRT2", 2, 800)
	g.AddEdge("Cubao LRT2", "Anonas", 2, 900)
	g.AddEdge("Anonas", "Katipunan", 2, 1100)
	g.AddEdge("Katipunan", "Santolan", 2, 1200)
	g.AddEdge("Santolan", "Marikina-Pasig", 3, 2500)
	g.AddEdge("Marikina-Pasig", "Antipolo", 3, 2800)

	return g
}
