package app

import (
	"context"
	"testing"

	idb "curator_monitor_bot/internal/infra/database"
)

const adminID int64 = 500

func newAdminFixture() (*AdminService, *fakeCuratorRepo, *fakeCommunityRepo) {
	com := testCommunity()
	cur := testCurator()
	curators := &fakeCuratorRepo{}
	curators.Create(context.Background(), cur)
	communities := newFakeCommunityRepo(com)
	return NewAdminService(curators, communities, adminID), curators, communities
}

func TestAdminAuthorizationGate(t *testing.T) {
	svc, _, _ := newAdminFixture()

	if _, err := svc.AddCurator(context.Background(), 999, "-1001", "555", "Вася"); err != ErrAdminNotAuthorized {
		t.Errorf("AddCurator err = %v, want ErrAdminNotAuthorized", err)
	}
	if _, err := svc.RemoveCurator(context.Background(), 999, "-1001", "777"); err != ErrAdminNotAuthorized {
		t.Errorf("RemoveCurator err = %v, want ErrAdminNotAuthorized", err)
	}
	if _, err := svc.ListCurators(context.Background(), 999, "-1001"); err != ErrAdminNotAuthorized {
		t.Errorf("ListCurators err = %v, want ErrAdminNotAuthorized", err)
	}
	if _, err := svc.RegisterCommunity(context.Background(), 999, "-2002", "New", "@curators", "1", "2"); err != ErrAdminNotAuthorized {
		t.Errorf("RegisterCommunity err = %v, want ErrAdminNotAuthorized", err)
	}
}

func TestAddCurator(t *testing.T) {
	svc, curators, _ := newAdminFixture()

	cur, err := svc.AddCurator(context.Background(), adminID, "-1001", "555", "Вася")
	if err != nil {
		t.Fatalf("AddCurator failed: %v", err)
	}
	if cur.CommunityID != 1 || !cur.IsActive {
		t.Errorf("curator = %+v", cur)
	}

	if _, err := svc.AddCurator(context.Background(), adminID, "-1001", "555", "Вася"); err != ErrCuratorAlreadyExists {
		t.Errorf("duplicate add err = %v, want ErrCuratorAlreadyExists", err)
	}

	active, _ := curators.ListActive(context.Background(), 1)
	if len(active) != 2 {
		t.Errorf("active curators = %d, want 2", len(active))
	}
}

func TestAddCuratorUnknownCommunity(t *testing.T) {
	svc, _, _ := newAdminFixture()

	if _, err := svc.AddCurator(context.Background(), adminID, "-9999", "555", "Вася"); err != idb.ErrCommunityNotFound {
		t.Errorf("err = %v, want ErrCommunityNotFound", err)
	}
}

func TestRemoveCuratorDeactivates(t *testing.T) {
	svc, curators, _ := newAdminFixture()

	cur, err := svc.RemoveCurator(context.Background(), adminID, "-1001", "777")
	if err != nil {
		t.Fatalf("RemoveCurator failed: %v", err)
	}
	if cur.IsActive {
		t.Error("removed curator must be inactive")
	}

	if _, err := svc.RemoveCurator(context.Background(), adminID, "-1001", "777"); err != ErrCuratorAlreadyInactive {
		t.Errorf("second removal err = %v, want ErrCuratorAlreadyInactive", err)
	}

	active, _ := curators.ListActive(context.Background(), 1)
	if len(active) != 0 {
		t.Errorf("active curators = %d, want 0 after removal", len(active))
	}
}

func TestRegisterCommunity(t *testing.T) {
	svc, _, communities := newAdminFixture()

	com, err := svc.RegisterCommunity(context.Background(), adminID, "-2002", "Second", "@curators", "7", "8")
	if err != nil {
		t.Fatalf("RegisterCommunity failed: %v", err)
	}
	if !com.IsActive || com.TaskChannelID != "7" {
		t.Errorf("community = %+v", com)
	}

	if _, err := svc.RegisterCommunity(context.Background(), adminID, "-2002", "Second", "@curators", "7", "8"); err != ErrCommunityAlreadyExists {
		t.Errorf("duplicate register err = %v, want ErrCommunityAlreadyExists", err)
	}

	active, _ := communities.ListActive(context.Background())
	if len(active) != 2 {
		t.Errorf("active communities = %d, want 2", len(active))
	}
}
