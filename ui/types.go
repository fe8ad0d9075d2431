package ui

import (
	"context"
	"time"

	"ccmon/model"
	"ccmon/proc"
)

// Messages

type tickMsg time.Time

type dataMsg struct {
	rows  []model.ProcRow
	total int
}

type summaryMsg proc.Summary

type statusMsg struct {
	text    string
	isError bool
}

// Controller ends the processes behind a row.
type Controller interface {
	EndAll(ctx context.Context, pids []int32, sig proc.Signal) (int, error)
}

// UI Modes

type uiMode int

const (
	normalMode uiMode = iota
	filterMode
	confirmKillMode
	helpMode
	settingsMode
	editThresholdCPU
	editThresholdMEM
	addWebhookMode
	confirmDeleteWebhook
)
