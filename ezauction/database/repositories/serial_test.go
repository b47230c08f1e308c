package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func serialPtr(v int64) *int64 { return &v }

func TestComputeSerialShift(t *testing.T) {
	tests := []struct {
		name      string
		oldSerial *int64
		newSerial *int64
		occupied  bool
		want      SerialShift
		wantShift bool
	}{
		{
			name: "no serial involved",
		},
		{
			name:      "insert into a free slot",
			newSerial: serialPtr(3),
			occupied:  false,
			wantShift: false,
		},
		{
			name:      "insert into a taken slot pushes the tail up",
			newSerial: serialPtr(3),
			occupied:  true,
			want:      SerialShift{MinSerial: 3, Delta: 1},
			wantShift: true,
		},
		{
			name:      "clearing a serial closes the gap",
			oldSerial: serialPtr(4),
			want:      SerialShift{MinSerial: 5, Delta: -1},
			wantShift: true,
		},
		{
			name:      "unchanged serial",
			oldSerial: serialPtr(4),
			newSerial: serialPtr(4),
			occupied:  true,
			wantShift: false,
		},
		{
			name:      "moving later slides the interval down",
			oldSerial: serialPtr(2),
			newSerial: serialPtr(6),
			occupied:  true,
			want:      SerialShift{MinSerial: 3, MaxSerial: 6, Bounded: true, Delta: -1},
			wantShift: true,
		},
		{
			name:      "moving earlier slides the interval up",
			oldSerial: serialPtr(6),
			newSerial: serialPtr(2),
			occupied:  true,
			want:      SerialShift{MinSerial: 2, MaxSerial: 5, Bounded: true, Delta: 1},
			wantShift: true,
		},
		{
			name:      "adjacent swap moving later",
			oldSerial: serialPtr(2),
			newSerial: serialPtr(3),
			occupied:  true,
			want:      SerialShift{MinSerial: 3, MaxSerial: 3, Bounded: true, Delta: -1},
			wantShift: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, shift := ComputeSerialShift(tt.oldSerial, tt.newSerial, tt.occupied)
			assert.Equal(t, tt.wantShift, shift)
			if tt.wantShift {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

// applyShift mirrors the SQL range update so density can be checked on a
// whole catalog at once.
func applyShift(serials map[int64]*int64, shift SerialShift, excludeID int64) {
	for id, s := range serials {
		if id == excludeID || s == nil {
			continue
		}
		if *s < shift.MinSerial {
			continue
		}
		if shift.Bounded && *s > shift.MaxSerial {
			continue
		}
		moved := *s + shift.Delta
		serials[id] = &moved
	}
}

func TestComputeSerialShift_KeepsOrderingDense(t *testing.T) {
	// Catalog of five players serialized 1..5.
	serials := map[int64]*int64{}
	for i := int64(1); i <= 5; i++ {
		v := i
		serials[i] = &v
	}

	// Move player 2 (serial 2) to serial 5.
	shift, ok := ComputeSerialShift(serialPtr(2), serialPtr(5), true)
	assert.True(t, ok)
	applyShift(serials, shift, 2)
	moved := int64(5)
	serials[2] = &moved

	seen := map[int64]int64{}
	for id, s := range serials {
		assert.NotNil(t, s)
		if prev, dup := seen[*s]; dup {
			t.Fatalf("players %d and %d share serial %d", prev, id, *s)
		}
		seen[*s] = id
	}
	for want := int64(1); want <= 5; want++ {
		assert.Contains(t, seen, want)
	}
	assert.Equal(t, int64(2), seen[5])
}
