package contracts

import (
	"math"
	"testing"
)

func TestPlaceRecordInitialState(t *testing.T) {
	env := newTestEnv(t)
	a := account(1)

	env.tick = 42
	ns := env.placeContract(t, a)

	record := env.aliveRecord(t, a)
	if record.NamespaceID != ns {
		t.Errorf("record namespace = %s, want %s", record.NamespaceID, ns)
	}
	if record.TotalPairCount != 0 || record.EmptyPairCount != 0 || record.StorageSize != 0 {
		t.Errorf("fresh record has non-zero counters: %+v", record)
	}
	if record.RentAllowance != math.MaxUint64 {
		t.Errorf("rent allowance = %d, want max", record.RentAllowance)
	}
	if record.DeductTick != 42 {
		t.Errorf("deduct tick = %d, want 42", record.DeductTick)
	}
	if record.HasLastWrite {
		t.Errorf("fresh record must have no last-write marker")
	}
}

func TestPlaceRecordTwice(t *testing.T) {
	env := newTestEnv(t)
	a := account(1)
	ns := env.placeContract(t, a)

	// mutate the first record so the failed second placement is detectable
	if err := env.engine.SetRentAllowance(a, 12345); err != nil {
		t.Fatalf("set rent allowance failed: %s", err)
	}

	otherNs := env.engine.GenerateNamespaceID(a)
	err := env.engine.PlaceRecord(a, otherNs, CodeRef{0xff})
	if err != ErrContractAlreadyExists {
		t.Fatalf("second placement returned %v, want ErrContractAlreadyExists", err)
	}

	// the first record must be untouched
	record := env.aliveRecord(t, a)
	if record.NamespaceID != ns {
		t.Errorf("namespace changed to %s after failed placement", record.NamespaceID)
	}
	if record.RentAllowance != 12345 {
		t.Errorf("rent allowance changed to %d after failed placement", record.RentAllowance)
	}
}

func TestPlaceRecordOverTombstone(t *testing.T) {
	env := newTestEnv(t)
	a := account(1)
	env.placeContract(t, a)

	if err := env.engine.TombstoneRecord(a, [32]byte{1}); err != nil {
		t.Fatalf("tombstone failed: %s", err)
	}

	ns := env.engine.GenerateNamespaceID(a)
	if err := env.engine.PlaceRecord(a, ns, CodeRef{}); err != ErrContractAlreadyExists {
		t.Fatalf("placement over tombstone returned %v, want ErrContractAlreadyExists", err)
	}
}

func TestRentAllowance(t *testing.T) {
	env := newTestEnv(t)
	a := account(1)

	if _, err := env.engine.RentAllowance(a); err != ErrContractAbsent {
		t.Fatalf("allowance of absent account returned %v, want ErrContractAbsent", err)
	}
	if err := env.engine.SetRentAllowance(a, 7); err != ErrContractAbsent {
		t.Fatalf("set allowance of absent account returned %v, want ErrContractAbsent", err)
	}

	env.placeContract(t, a)

	if err := env.engine.SetRentAllowance(a, 7); err != nil {
		t.Fatalf("set rent allowance failed: %s", err)
	}
	allowance, err := env.engine.RentAllowance(a)
	if err != nil {
		t.Fatalf("rent allowance failed: %s", err)
	}
	if allowance != 7 {
		t.Errorf("rent allowance = %d, want 7", allowance)
	}

	// tombstoned accounts reject allowance access
	if err := env.engine.TombstoneRecord(a, [32]byte{}); err != nil {
		t.Fatalf("tombstone failed: %s", err)
	}
	if _, err := env.engine.RentAllowance(a); err != ErrContractAbsent {
		t.Errorf("allowance of tombstoned account returned %v, want ErrContractAbsent", err)
	}
}

func TestCodeRefOf(t *testing.T) {
	env := newTestEnv(t)
	a := account(1)

	if _, err := env.engine.CodeRefOf(a); err != ErrContractAbsent {
		t.Fatalf("code ref of absent account returned %v, want ErrContractAbsent", err)
	}

	ns := env.engine.GenerateNamespaceID(a)
	want := CodeRef{0xde, 0xad}
	if err := env.engine.PlaceRecord(a, ns, want); err != nil {
		t.Fatalf("place record failed: %s", err)
	}

	codeRef, err := env.engine.CodeRefOf(a)
	if err != nil {
		t.Fatalf("code ref failed: %s", err)
	}
	if codeRef != want {
		t.Errorf("code ref = %x, want %x", codeRef, want)
	}
}

func TestDestroyRecord(t *testing.T) {
	env := newTestEnv(t)
	a := account(1)
	ns := env.placeContract(t, a)

	for i := byte(0); i < 3; i++ {
		if err := env.engine.Write(a, ns, []byte{i}, []byte("value")); err != nil {
			t.Fatalf("write failed: %s", err)
		}
	}

	if err := env.engine.DestroyRecord(a); err != nil {
		t.Fatalf("destroy failed: %s", err)
	}

	// the record is gone and the namespace is queued
	if env.engine.getRecord(a) != nil {
		t.Errorf("record still present after destroy")
	}
	if got := env.engine.QueueLen(); got != 1 {
		t.Errorf("queue length = %d, want 1", got)
	}

	// destroying again fails, the account is Absent now
	if err := env.engine.DestroyRecord(a); err != ErrContractAbsent {
		t.Errorf("second destroy returned %v, want ErrContractAbsent", err)
	}
}

func TestTombstoneRecordKeepsCommitment(t *testing.T) {
	env := newTestEnv(t)
	a := account(1)
	env.placeContract(t, a)

	commitment := [32]byte{0xbe, 0xef}
	if err := env.engine.TombstoneRecord(a, commitment); err != nil {
		t.Fatalf("tombstone failed: %s", err)
	}

	tombstone, ok := env.engine.getRecord(a).(*Tombstone)
	if !ok {
		t.Fatalf("expected a tombstone record")
	}
	if tombstone.Commitment != commitment {
		t.Errorf("commitment = %x, want %x", tombstone.Commitment, commitment)
	}
	if got := env.engine.QueueLen(); got != 1 {
		t.Errorf("queue length = %d, want 1", got)
	}
}
