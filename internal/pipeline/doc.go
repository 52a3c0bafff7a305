// Package pipeline builds a dataset page in ordered steps.
//
// A Job carries a manifest through the steps of DefaultPipeline: summaries
// are loaded, each report becomes a Profile with its own anchor scope,
// profiles are grouped into DataSets, the DataSetReport is rendered and
// written, the written page is checked for broken anchors, and the page is
// recorded in the catalog when one is configured.
//
//	job := pipeline.NewJob(manifest, cfg.Settings())
//	p := pipeline.DefaultPipeline(renderer, nil, pipeline.WithPipelineCatalog(cat))
//	if err := p.Execute(ctx, job); err != nil {
//	    return err
//	}
//	fmt.Println(job.Path)
package pipeline
