// Package dataset groups profiling reports into named datasets and renders
// several datasets, with an optional lineage diagram, on one HTML page.
//
// A Profile is the report object: it owns one summary and builds, renders
// and exports its report. A DataSet is an ordered, append-only list of
// reports under a name and a generated identifier. A DataSetReport is an
// immutable list of DataSets that renders through the dataset.html
// template and can be written to disk.
//
// Basic usage:
//
//	profile := dataset.NewProfile("Census", summary, settings)
//	all := dataset.NewDataSet("Census All Ages", []dataset.Report{profile})
//	page := dataset.NewDataSetReport("demo", []*dataset.DataSet{all},
//		dataset.WithLineage("graph LR\nA --> B"))
//	path, err := page.WriteToFile("")
package dataset
