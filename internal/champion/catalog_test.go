package champion

import "testing"

func TestNormalizeRoundTrip(t *testing.T) {
	c := New("15.19.1", "https://ddragon.leagueoflegends.com", nil)
	c.apply(ddragonChampionList{Data: map[string]struct {
		Key  string `json:"key"`
		Name string `json:"name"`
	}{
		"Ahri": {Key: "103", Name: "Ahri"},
	}})

	name, ok := c.NameFor("103")
	if !ok || name != "Ahri" {
		t.Fatalf("NameFor(103) = %q, %v", name, ok)
	}

	key, ok := c.NormalizeToKey(name)
	if !ok || key != "103" {
		t.Fatalf("NormalizeToKey(%q) = %q, %v; want 103", name, key, ok)
	}

	// Case-insensitive name lookup.
	key, ok = c.NormalizeToKey("ahri")
	if !ok || key != "103" {
		t.Fatalf("NormalizeToKey(ahri) = %q, %v", key, ok)
	}
}

func TestNormalizeNumericPassThrough(t *testing.T) {
	c := New("15.19.1", "https://ddragon.leagueoflegends.com", nil)
	key, ok := c.NormalizeToKey("999999")
	if !ok || key != "999999" {
		t.Fatalf("numeric refs must pass through even when unknown to the catalog, got %q, %v", key, ok)
	}
}

func TestNormalizeRejectsUnknownName(t *testing.T) {
	c := New("15.19.1", "https://ddragon.leagueoflegends.com", nil)
	if _, ok := c.NormalizeToKey("NotAChampion"); ok {
		t.Fatal("expected unknown name to be rejected")
	}
}
