package vectorstore

import (
	"testing"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

func TestParseQdrantURL(t *testing.T) {
	tests := []struct {
		name     string
		urlStr   string
		wantErr  bool
		wantHost string
		wantPort int
	}{
		{
			name:     "valid URL",
			urlStr:   "http://localhost:6333",
			wantHost: "localhost",
			wantPort: 6334, // gRPC port is HTTP port + 1
		},
		{
			name:     "URL with custom port",
			urlStr:   "http://qdrant:9000",
			wantHost: "qdrant",
			wantPort: 9001,
		},
		{
			name:    "invalid URL",
			urlStr:  "://invalid",
			wantErr: true,
		},
		{
			name:     "URL without port",
			urlStr:   "http://localhost",
			wantHost: "localhost",
			wantPort: 6334,
		},
		{
			name:     "URL without hostname",
			urlStr:   "http://:6333",
			wantHost: "localhost",
			wantPort: 6334,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, port, err := parseQdrantURL(tt.urlStr)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseQdrantURL(%q) expected error, got nil", tt.urlStr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseQdrantURL(%q) error = %v", tt.urlStr, err)
			}
			if host != tt.wantHost {
				t.Errorf("host = %s, want %s", host, tt.wantHost)
			}
			if port != tt.wantPort {
				t.Errorf("port = %d, want %d", port, tt.wantPort)
			}
		})
	}
}

func TestPointID(t *testing.T) {
	a := pointID("chunk_0")
	if a != pointID("chunk_0") {
		t.Error("pointID() is not deterministic")
	}
	if a == pointID("chunk_1") {
		t.Error("pointID() collides for different IDs")
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("pointID() = %q is not a UUID: %v", a, err)
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	doc := Document{
		ID:       "chunk_3",
		Text:     "I live in Lisbon.",
		Metadata: map[string]string{"source": "aboutme.txt", "chunk_index": "3"},
	}

	payload := qdrant.NewValueMap(buildPayload(doc))
	got := resultFromPayload(payload, 0.87)

	if got.ID != doc.ID {
		t.Errorf("ID = %s, want %s", got.ID, doc.ID)
	}
	if got.Text != doc.Text {
		t.Errorf("Text = %q, want %q", got.Text, doc.Text)
	}
	if got.Score != 0.87 {
		t.Errorf("Score = %v, want 0.87", got.Score)
	}
	if len(got.Metadata) != 2 || got.Metadata["source"] != "aboutme.txt" || got.Metadata["chunk_index"] != "3" {
		t.Errorf("Metadata = %v", got.Metadata)
	}
}

func TestConvertValue(t *testing.T) {
	tests := []struct {
		name  string
		value *qdrant.Value
		want  any
	}{
		{"string", qdrant.NewValueString("x"), "x"},
		{"int", qdrant.NewValueInt(7), int64(7)},
		{"bool", qdrant.NewValueBool(true), true},
		{"double", qdrant.NewValueDouble(1.5), 1.5},
		{"null", qdrant.NewValueNull(), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := convertValue(tt.value); got != tt.want {
				t.Errorf("convertValue() = %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestVectorSizeOf(t *testing.T) {
	if got := vectorSizeOf(nil); got != 0 {
		t.Errorf("vectorSizeOf(nil) = %d, want 0", got)
	}

	info := &qdrant.CollectionInfo{
		Config: &qdrant.CollectionConfig{
			Params: &qdrant.CollectionParams{
				VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{Size: 768, Distance: qdrant.Distance_Cosine}),
			},
		},
	}
	if got := vectorSizeOf(info); got != 768 {
		t.Errorf("vectorSizeOf() = %d, want 768", got)
	}
}
