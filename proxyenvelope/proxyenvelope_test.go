package proxyenvelope

import "testing"

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	want := Envelope{
		MatchedURL:   "https://example.com/asset.js",
		ResourceType: 7,
		ShouldProxy:  true,
	}

	got, err := Unmarshal(want.Marshal())
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestMarshalUnmarshalCarriesStreamBody(t *testing.T) {
	want := Envelope{
		MatchedURL:   "https://example.com/replace-me",
		ResourceType: 1,
		ShouldProxy:  true,
		BodyType:     BodyTypeStream,
		StreamID:     42,
	}

	got, err := Unmarshal(want.Marshal())
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestUnmarshalIgnoresUnknownFields(t *testing.T) {
	env := Envelope{MatchedURL: "https://example.com", ShouldProxy: false}
	encoded := env.Marshal()

	// protobuf's wire format tolerates trailing unknown fields; append one
	// the decoder has never heard of (field 99, varint) and confirm it is
	// skipped rather than rejected.
	encoded = append(encoded, 0x98, 0x06, 1)

	got, err := Unmarshal(encoded)
	if err != nil {
		t.Fatalf("Unmarshal with a trailing unknown field: %v", err)
	}
	if got.MatchedURL != env.MatchedURL {
		t.Fatalf("got %+v, want MatchedURL = %q", got, env.MatchedURL)
	}
}
