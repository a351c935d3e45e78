package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recordsStored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_records_stored_total",
		Help: "Attendance submissions accepted and persisted.",
	}, []string{"version"})

	validationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_validation_failures_total",
		Help: "Attendance submissions rejected by schema validation.",
	}, []string{"version"})

	recordsDeleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_records_deleted_total",
		Help: "Attendance records removed by id.",
	}, []string{"version"})
)
