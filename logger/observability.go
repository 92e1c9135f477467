package logger

import (
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ObservabilityLogger provides structured JSONL logging using logrus,
// written through a size-rotated file.
type ObservabilityLogger struct {
	logger *logrus.Logger
	file   *lumberjack.Logger
}

// Component constants for consistent labeling
const (
	ComponentRepairPipeline = "repair_pipeline"
	ComponentStreamRewriter = "stream_rewriter"
	ComponentSchemaRegistry = "schema_registry"
	ComponentConfig         = "configuration"
)

// Category constants for log classification
const (
	CategoryTransformation = "transformation"
	CategoryValidation     = "validation"
	CategoryStream         = "stream"
	CategoryWarning        = "warning"
	CategoryError          = "error"
	CategoryDebug          = "debug"
)

// NewObservabilityLogger creates a structured logger writing rotated
// JSONL under logDir.
func NewObservabilityLogger(logDir string) (*ObservabilityLogger, error) {
	file := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "openclaw-repair.jsonl"),
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     14, // days
		Compress:   true,
	}

	logger := logrus.New()
	logger.SetOutput(file)
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	logger.SetLevel(logrus.InfoLevel)

	// Add service field to all logs
	logger = logger.WithField("service", "openclaw-repair").Logger

	return &ObservabilityLogger{
		logger: logger,
		file:   file,
	}, nil
}

// Close closes the underlying log file
func (o *ObservabilityLogger) Close() error {
	if o.file != nil {
		return o.file.Close()
	}
	return nil
}

// createEntry creates a logrus entry with standard fields
func (o *ObservabilityLogger) createEntry(component, category, streamID string, fields map[string]interface{}) *logrus.Entry {
	entry := o.logger.WithFields(logrus.Fields{
		"component": component,
		"category":  category,
	})

	if streamID != "" {
		entry = entry.WithField("stream_id", streamID)
	}

	if fields != nil {
		entry = entry.WithFields(fields)
	}

	return entry
}

// Debug logs a debug message
func (o *ObservabilityLogger) Debug(component, category, streamID, message string, fields map[string]interface{}) {
	o.createEntry(component, category, streamID, fields).Debug(message)
}

// Info logs an info message
func (o *ObservabilityLogger) Info(component, category, streamID, message string, fields map[string]interface{}) {
	o.createEntry(component, category, streamID, fields).Info(message)
}

// Warn logs a warning message
func (o *ObservabilityLogger) Warn(component, category, streamID, message string, fields map[string]interface{}) {
	o.createEntry(component, category, streamID, fields).Warn(message)
}

// Error logs an error message
func (o *ObservabilityLogger) Error(component, category, streamID, message string, fields map[string]interface{}) {
	o.createEntry(component, category, streamID, fields).Error(message)
}

// ToolRepair logs a tool argument repair
func (o *ObservabilityLogger) ToolRepair(streamID, toolName, message string, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields["tool_name"] = toolName
	o.Info(ComponentRepairPipeline, CategoryTransformation, streamID, message, fields)
}

// StreamEvent logs a stream lifecycle event
func (o *ObservabilityLogger) StreamEvent(streamID, message string, fields map[string]interface{}) {
	o.Info(ComponentStreamRewriter, CategoryStream, streamID, message, fields)
}
