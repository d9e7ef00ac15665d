// Package health serves the pipeline's liveness/readiness/metrics HTTP
// endpoints: a plain process-alive check, a readiness check that reports
// whether the detector engine is loaded, and a text stats dump read from
// internal/pipeline's counters.
package health
