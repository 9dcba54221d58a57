package rooms

import (
	"errors"
	"sync"
	"testing"
	"time"

	"syncflix-server/core"
)

func TestJoin_Success(t *testing.T) {
	reg := NewRegistry()
	room := mustCreateRoom(t, reg, "abc123", "movie.mp4", "host-1")

	res, err := reg.Join(room.ID, "abc123", "client-1")
	if err != nil {
		t.Fatalf("Join() failed: %v", err)
	}
	if res.Host != "host-1" {
		t.Errorf("Host = %q, want %q", res.Host, "host-1")
	}
	if res.State.Time != 0 || !res.State.Paused {
		t.Errorf("State = %+v, want paused at zero", res.State)
	}
	if room.ClientConn != "client-1" {
		t.Errorf("client slot = %q, want %q", room.ClientConn, "client-1")
	}
}

func TestJoin_MissingRoomID(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Join("", "abc123", "client-1")
	if !errors.Is(err, core.ErrInvalidRequest) {
		t.Errorf("Join() error = %v, want ErrInvalidRequest", err)
	}
}

func TestJoin_RoomNotFound(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Join("nonexistent", "abc123", "client-1")
	if !errors.Is(err, core.ErrRoomNotFound) {
		t.Errorf("Join() error = %v, want ErrRoomNotFound", err)
	}
}

func TestJoin_RoomFull(t *testing.T) {
	reg := NewRegistry()
	room := mustCreateRoom(t, reg, "abc123", "movie.mp4", "host-1")

	if _, err := reg.Join(room.ID, "abc123", "client-1"); err != nil {
		t.Fatalf("first Join() failed: %v", err)
	}

	_, err := reg.Join(room.ID, "abc123", "client-2")
	if !errors.Is(err, core.ErrRoomFull) {
		t.Errorf("second Join() error = %v, want ErrRoomFull", err)
	}
	if room.ClientConn != "client-1" {
		t.Errorf("existing binding disturbed: client slot = %q, want %q", room.ClientConn, "client-1")
	}
}

func TestJoin_ContentMismatch(t *testing.T) {
	reg := NewRegistry()
	room := mustCreateRoom(t, reg, "abc123", "movie.mp4", "host-1")

	_, err := reg.Join(room.ID, "xyz", "client-1")
	if !errors.Is(err, core.ErrContentMismatch) {
		t.Errorf("Join() error = %v, want ErrContentMismatch", err)
	}
	if room.ClientConn != "" {
		t.Errorf("client slot should stay vacant after a mismatch, got %q", room.ClientConn)
	}
}

func TestJoin_ConcurrentSingleWinner(t *testing.T) {
	reg := NewRegistry()
	room := mustCreateRoom(t, reg, "abc123", "movie.mp4", "host-1")

	numJoiners := 20
	var wg sync.WaitGroup
	var successMutex sync.Mutex
	successes := 0

	for i := 0; i < numJoiners; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			conn := core.ConnID("client-" + string(rune('a'+index)))
			if _, err := reg.Join(room.ID, "abc123", conn); err == nil {
				successMutex.Lock()
				successes++
				successMutex.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("expected exactly one successful join, got %d", successes)
	}
}

func TestJoin_AfterHostDisconnect(t *testing.T) {
	reg := NewRegistry()
	room := mustCreateRoom(t, reg, "abc123", "movie.mp4", "host-1")
	reg.Disconnect("host-1")

	res, err := reg.Join(room.ID, "abc123", "client-1")
	if err != nil {
		t.Fatalf("Join() failed: %v", err)
	}
	if res.Host != "" {
		t.Errorf("Host = %q, want empty after the host dropped", res.Host)
	}
}

func TestDisconnect_ClearsSlot(t *testing.T) {
	reg := NewRegistry()
	room := mustCreateRoom(t, reg, "abc123", "movie.mp4", "host-1")
	if _, err := reg.Join(room.ID, "abc123", "client-1"); err != nil {
		t.Fatalf("Join() failed: %v", err)
	}

	before := room.LastActive
	time.Sleep(time.Millisecond)

	affected := reg.Disconnect("client-1")
	if len(affected) != 1 || affected[0] != room.ID {
		t.Errorf("Disconnect() affected = %v, want [%s]", affected, room.ID)
	}
	if room.ClientConn != "" {
		t.Errorf("client slot = %q, want vacant", room.ClientConn)
	}
	if room.HostConn != "host-1" {
		t.Errorf("host slot disturbed: %q", room.HostConn)
	}
	if !room.LastActive.After(before) {
		t.Error("LastActive should be refreshed on disconnect")
	}
}

func TestDisconnect_NeverDeletesRoom(t *testing.T) {
	reg := NewRegistry()
	room := mustCreateRoom(t, reg, "abc123", "movie.mp4", "host-1")

	reg.Disconnect("host-1")

	if !reg.Has(room.ID) {
		t.Fatal("room should survive disconnect; only the sweeper deletes")
	}

	// The vacated slot is reusable until the sweep runs.
	if _, err := reg.Join(room.ID, "abc123", "client-1"); err != nil {
		t.Errorf("Join() into the surviving room failed: %v", err)
	}
}

func TestDisconnect_UnknownConn(t *testing.T) {
	reg := NewRegistry()
	mustCreateRoom(t, reg, "abc123", "movie.mp4", "host-1")

	if affected := reg.Disconnect("stranger"); len(affected) != 0 {
		t.Errorf("Disconnect() affected = %v, want none", affected)
	}
}
