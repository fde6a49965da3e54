// Package qlog wraps a zap logger with the stable textual schema the
// reporting layer promises callers parsing the log stream: the compile-time
// gate/group counts and timing lines, unchanged across refactors.
package qlog

import "go.uber.org/zap"

type Logger struct {
	sugar *zap.SugaredLogger
}

func New(base *zap.Logger) *Logger {
	if base == nil {
		base = zap.NewNop()
	}
	return &Logger{sugar: base.Sugar()}
}

// NewProduction builds a Logger over zap's production encoder config.
func NewProduction() (*Logger, error) {
	base, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return New(base), nil
}

func (l *Logger) Sync() error {
	return l.sugar.Sync()
}

func (l *Logger) TotalGates(n int) {
	l.sugar.Infof("Total Gates %d", n)
}

// TotalGroups logs the number of local groups, total full groups, total
// full-group gates and total overlap gates.
func (l *Logger) TotalGroups(numLocalGroups, totalFullGroups, fullGates, overlapGates int) {
	l.sugar.Infof("Total Groups: %d %d %d %d", numLocalGroups, totalFullGroups, fullGates, overlapGates)
}

// CompileTime logs the split between local scheduling time and the
// collective broadcast of the serialized schedule, both in microseconds.
func (l *Logger) CompileTime(localUs, broadcastUs int64) {
	l.sugar.Infof("Compile Time: %d us + %d us = %d us", localUs, broadcastUs, localUs+broadcastUs)
}

func (l *Logger) TimeCost(us int64) {
	l.sugar.Infof("Time Cost: %d us", us)
}

func (l *Logger) Infof(template string, args ...interface{}) {
	l.sugar.Infof(template, args...)
}

func (l *Logger) Errorf(template string, args ...interface{}) {
	l.sugar.Errorf(template, args...)
}
