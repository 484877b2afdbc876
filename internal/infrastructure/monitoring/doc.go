/*
Package monitoring provides Prometheus metrics for the file service.

# Overview

Metrics are registered on a caller-supplied registry so tests and embedded
servers never collide on the global default. The collector tracks HTTP
traffic and filesystem operations and implements the filesystem.Recorder
interface.

# Features

- HTTP request metrics (latency, throughput, size)
- Operation metrics by outcome ("ok" or an error kind)
- Upload file outcomes and entries removed by delete
- Listing sizes
- Uptime

# Usage

	registry := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(registry)

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Feed operation metrics from the service
	service, err := filesystem.NewService(filesystem.Options{Root: root, Recorder: metrics})

# Metrics Endpoint

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
*/
package monitoring
