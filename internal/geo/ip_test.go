package geo

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "remote addr only",
			remoteAddr: "1.2.3.4:5555",
			want:       "1.2.3.4",
		},
		{
			name:       "forwarded-for single",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Forwarded-For": "8.8.8.8"},
			want:       "8.8.8.8",
		},
		{
			name:       "forwarded-for chain takes first",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Forwarded-For": "8.8.8.8, 10.0.0.2, 10.0.0.3"},
			want:       "8.8.8.8",
		},
		{
			name:       "invalid forwarded-for falls through",
			remoteAddr: "1.2.3.4:5555",
			headers:    map[string]string{"X-Forwarded-For": "not-an-ip"},
			want:       "1.2.3.4",
		},
		{
			name:       "real-ip header",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Real-IP": "9.9.9.9"},
			want:       "9.9.9.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := ClientIP(req); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	private := []string{"127.0.0.1", "10.1.2.3", "172.16.0.1", "192.168.1.1", "::1", "fc00::1"}
	for _, ip := range private {
		if !IsPrivateIP(ip) {
			t.Errorf("IsPrivateIP(%q) = false, want true", ip)
		}
	}

	public := []string{"8.8.8.8", "1.1.1.1", "2001:4860:4860::8888"}
	for _, ip := range public {
		if IsPrivateIP(ip) {
			t.Errorf("IsPrivateIP(%q) = true, want false", ip)
		}
	}

	if IsPrivateIP("garbage") {
		t.Error("IsPrivateIP should be false for unparseable input")
	}
}
