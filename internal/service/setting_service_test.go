package service

import "testing"

func TestFilterSiteSettings(t *testing.T) {
	all := map[string]string{
		"site_title":         "Paarsh E-Learning",
		"site_contact_email": "hello@paarshedu.com",
		"smtp_password":      "secret",
		"razorpay_key":       "rzp_test_123",
	}

	site := filterSiteSettings(all)

	if len(site) != 2 {
		t.Fatalf("expected 2 public settings, got %d: %v", len(site), site)
	}
	if site["site_title"] != "Paarsh E-Learning" {
		t.Errorf("site_title missing from public settings")
	}
	for _, key := range []string{"smtp_password", "razorpay_key"} {
		if _, ok := site[key]; ok {
			t.Errorf("admin-only key %q leaked into public settings", key)
		}
	}
}

func TestFilterSiteSettingsEmpty(t *testing.T) {
	if got := filterSiteSettings(map[string]string{}); len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
}
