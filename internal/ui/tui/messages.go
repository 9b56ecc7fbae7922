package tui

import "github.com/mawi1/oondl/internal/domain"

type downloadUpdateMsg struct {
	update domain.Update
}

type updatesClosedMsg struct{}
