// Copyright (c) 2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package lobby

import (
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/playerdata"
)

// LeaveHistory records players who removed themselves from the lobby.
// A recorded player can only be brought back by themselves.
type LeaveHistory struct {
	leavers map[playerdata.ID]struct{}
}

func NewLeaveHistory() *LeaveHistory {
	return &LeaveHistory{leavers: make(map[playerdata.ID]struct{})}
}

func (h *LeaveHistory) Record(id playerdata.ID) {
	h.leavers[id] = struct{}{}
}

func (h *LeaveHistory) Clear(id playerdata.ID) {
	delete(h.leavers, id)
}

func (h *LeaveHistory) Contains(id playerdata.ID) bool {
	_, ok := h.leavers[id]
	return ok
}

func (h *LeaveHistory) Len() int {
	return len(h.leavers)
}
