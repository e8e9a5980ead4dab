package eod

import (
	"time"

	"signal-scanner/internal/interfaces"
)

var defaultSummarizer interfaces.SignalSummarizer = &eodSummarizer{}

func SetDefaultSummarizer(summarizer interfaces.SignalSummarizer) {
	defaultSummarizer = summarizer
}

func NewSummarizer() interfaces.SignalSummarizer {
	return &eodSummarizer{}
}

func SummarizeDay(t time.Time) (string, error) {
	return defaultSummarizer.SummarizeDay(t)
}

func SummarizeToday() (string, error) {
	return defaultSummarizer.SummarizeToday()
}

func ShouldRunNow() (bool, string) {
	return defaultSummarizer.ShouldRunNow()
}
