package render

import "testing"

var benchmarkReply = "<h2>Flights</h2>" +
	"<p>I found <strong>three</strong> options from <em>Lisbon</em> to Porto:</p>" +
	"<ul><li>07:10 TP1940</li><li>12:35 TP1944</li><li>19:05 TP1952</li></ul>" +
	"<table><tr><th>Flight</th><th>Price</th></tr>" +
	"<tr><td>TP1940</td><td>49 EUR</td></tr></table>" +
	"<pre><code>curl https://example.com/book</code></pre>"

func BenchmarkResponseCold(b *testing.B) {
	opts := DefaultOptions()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ClearCache()
		if _, err := Response(benchmarkReply, opts); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkResponsePooled(b *testing.B) {
	opts := DefaultOptions()
	if _, err := Response(benchmarkReply, opts); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Response(benchmarkReply, opts); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkResponseParallel(b *testing.B) {
	opts := DefaultOptions()
	if _, err := Response(benchmarkReply, opts); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := Response(benchmarkReply, opts); err != nil {
				b.Error(err)
			}
		}
	})
}

func BenchmarkToMarkdown(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = ToMarkdown(benchmarkReply, HTMLSanitize)
	}
}
