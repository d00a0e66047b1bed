// Package printing produces the journey documents of a deal.
//
// This package contains:
// - TemplateEngine, which renders the embedded HTML templates per document type
// - PDFRenderer with a chromedp implementation and a plain text fallback
// - Producer, which implements the deal DocumentProducer port by rendering
//   HTML and PDF and writing both to a FileStore behind a circuit breaker
//
// Example usage:
//
//	renderer, err := NewChromedpRenderer(&ChromedpConfig{NoSandbox: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	producer := NewProducer(NewTemplateEngine(), renderer, fileStore)
//	produced, err := producer.Produce(ctx, req)
package printing
