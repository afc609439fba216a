package report

// htmlTemplate is the report page. Styling follows the light/dark CSS
// variable scheme; the page carries no scripts and loads nothing remote.
const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Scenario}} - Load Test Report</title>
    <style>
        :root {
            --bg-primary: #ffffff;
            --bg-secondary: #f8fafc;
            --bg-card: #ffffff;
            --text-primary: #1e293b;
            --text-secondary: #64748b;
            --text-muted: #94a3b8;
            --border-color: #e2e8f0;
            --accent-primary: #3b82f6;
            --accent-success: #22c55e;
            --accent-warning: #f59e0b;
            --accent-error: #ef4444;
            --shadow: 0 1px 3px rgba(0, 0, 0, 0.1);
        }

        @media (prefers-color-scheme: dark) {
            :root {
                --bg-primary: #0f172a;
                --bg-secondary: #1e293b;
                --bg-card: #1e293b;
                --text-primary: #f1f5f9;
                --text-secondary: #94a3b8;
                --text-muted: #64748b;
                --border-color: #334155;
                --shadow: 0 1px 3px rgba(0, 0, 0, 0.3);
            }
        }

        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background-color: var(--bg-secondary);
            color: var(--text-primary);
            line-height: 1.6;
            min-height: 100vh;
        }

        .container {
            max-width: 1100px;
            margin: 0 auto;
            padding: 2rem;
        }

        .header {
            background: var(--bg-card);
            border-radius: 12px;
            padding: 2rem;
            margin-bottom: 2rem;
            box-shadow: var(--shadow);
            display: flex;
            justify-content: space-between;
            align-items: center;
            flex-wrap: wrap;
            gap: 1rem;
        }

        .header h1 {
            font-size: 1.75rem;
            font-weight: 700;
            margin-bottom: 0.5rem;
        }

        .header .meta {
            display: flex;
            gap: 2rem;
            font-size: 0.875rem;
            color: var(--text-muted);
        }

        .status {
            display: inline-flex;
            align-items: center;
            gap: 0.5rem;
            padding: 0.75rem 1.5rem;
            border-radius: 8px;
            font-weight: 600;
            font-size: 1rem;
        }

        .status.pass {
            background-color: rgba(34, 197, 94, 0.1);
            color: var(--accent-success);
            border: 1px solid rgba(34, 197, 94, 0.2);
        }

        .status.fail {
            background-color: rgba(239, 68, 68, 0.1);
            color: var(--accent-error);
            border: 1px solid rgba(239, 68, 68, 0.2);
        }

        .cards {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
            gap: 1rem;
            margin-bottom: 2rem;
        }

        .card {
            background: var(--bg-card);
            border-radius: 12px;
            padding: 1.5rem;
            box-shadow: var(--shadow);
        }

        .card .label {
            font-size: 0.8rem;
            text-transform: uppercase;
            letter-spacing: 0.05em;
            color: var(--text-muted);
            margin-bottom: 0.25rem;
        }

        .card .value {
            font-size: 1.75rem;
            font-weight: 700;
        }

        .card .value.ok { color: var(--accent-success); }
        .card .value.warn { color: var(--accent-warning); }
        .card .value.fail { color: var(--accent-error); }

        .section {
            background: var(--bg-card);
            border-radius: 12px;
            padding: 2rem;
            margin-bottom: 2rem;
            box-shadow: var(--shadow);
        }

        .section-title {
            font-size: 1.1rem;
            font-weight: 600;
            margin-bottom: 1.25rem;
        }

        .latency-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(110px, 1fr));
            gap: 1rem;
        }

        .latency-item {
            text-align: center;
            padding: 1rem;
            background: var(--bg-secondary);
            border-radius: 8px;
        }

        .latency-item .percentile {
            font-size: 0.8rem;
            color: var(--text-muted);
            margin-bottom: 0.25rem;
        }

        .latency-item .time {
            font-size: 1.2rem;
            font-weight: 600;
        }

        .stats-table {
            width: 100%;
            border-collapse: collapse;
            font-size: 0.9rem;
        }

        .stats-table th,
        .stats-table td {
            text-align: left;
            padding: 0.6rem 0.75rem;
            border-bottom: 1px solid var(--border-color);
        }

        .stats-table th {
            color: var(--text-muted);
            font-weight: 600;
            font-size: 0.8rem;
            text-transform: uppercase;
            letter-spacing: 0.05em;
        }

        .threshold-item {
            display: flex;
            align-items: center;
            gap: 1rem;
            padding: 0.75rem 0;
            border-bottom: 1px solid var(--border-color);
        }

        .threshold-item:last-child { border-bottom: none; }

        .threshold-icon {
            font-weight: 700;
            font-size: 1.1rem;
        }

        .threshold-icon.pass { color: var(--accent-success); }
        .threshold-icon.fail { color: var(--accent-error); }

        .threshold-expression {
            font-family: 'SF Mono', Consolas, monospace;
            flex: 1;
        }

        .threshold-value {
            color: var(--text-secondary);
            font-size: 0.875rem;
        }

        .footer {
            text-align: center;
            color: var(--text-muted);
            font-size: 0.8rem;
            padding: 1rem 0;
        }
    </style>
</head>
<body>
    <div class="container">
        <header class="header">
            <div>
                <h1>{{.Scenario}}</h1>
                <div class="meta">
                    <span>Started {{.Started.Format "2006-01-02 15:04:05"}}</span>
                    <span>Duration {{formatDuration .Duration}}</span>
                </div>
            </div>
            {{if .Passed}}
            <div class="status pass">✓ Passed</div>
            {{else}}
            <div class="status fail">✗ Failed</div>
            {{end}}
        </header>

        {{with .Snapshot}}
        <div class="cards">
            <div class="card">
                <div class="label">Samples</div>
                <div class="value">{{formatNumber .Count}}</div>
            </div>
            <div class="card">
                <div class="label">Success Rate</div>
                <div class="value {{rateClass .SuccessRate}}">{{printf "%.1f%%" .SuccessRate}}</div>
            </div>
            <div class="card">
                <div class="label">Failures</div>
                <div class="value">{{formatNumber .FailedCount}}</div>
            </div>
            <div class="card">
                <div class="label">P95 Latency</div>
                <div class="value">{{formatLatency .P95}}</div>
            </div>
        </div>

        <section class="section">
            <h2 class="section-title">Latency Distribution</h2>
            <div class="latency-grid">
                <div class="latency-item">
                    <div class="percentile">Min</div>
                    <div class="time">{{formatLatency .Min}}</div>
                </div>
                <div class="latency-item">
                    <div class="percentile">P50</div>
                    <div class="time">{{formatLatency .P50}}</div>
                </div>
                <div class="latency-item">
                    <div class="percentile">P90</div>
                    <div class="time">{{formatLatency .P90}}</div>
                </div>
                <div class="latency-item">
                    <div class="percentile">P95</div>
                    <div class="time">{{formatLatency .P95}}</div>
                </div>
                <div class="latency-item">
                    <div class="percentile">P99</div>
                    <div class="time">{{formatLatency .P99}}</div>
                </div>
                <div class="latency-item">
                    <div class="percentile">Max</div>
                    <div class="time">{{formatLatency .Max}}</div>
                </div>
                <div class="latency-item">
                    <div class="percentile">Mean</div>
                    <div class="time">{{formatLatency .Mean}}</div>
                </div>
            </div>
        </section>

        {{if .PerRequest}}
        <section class="section">
            <h2 class="section-title">Request Statistics</h2>
            <table class="stats-table">
                <thead>
                    <tr>
                        <th>Request</th>
                        <th>Count</th>
                        <th>Success</th>
                        <th>Min</th>
                        <th>Mean</th>
                        <th>P50</th>
                        <th>P95</th>
                        <th>P99</th>
                        <th>Max</th>
                    </tr>
                </thead>
                <tbody>
                    {{range $name, $stats := .PerRequest}}
                    <tr>
                        <td>{{$name}}</td>
                        <td>{{formatNumber $stats.Count}}</td>
                        <td>{{printf "%.1f%%" $stats.SuccessRate}}</td>
                        <td>{{formatLatency $stats.Min}}</td>
                        <td>{{formatLatency $stats.Mean}}</td>
                        <td>{{formatLatency $stats.P50}}</td>
                        <td>{{formatLatency $stats.P95}}</td>
                        <td>{{formatLatency $stats.P99}}</td>
                        <td>{{formatLatency $stats.Max}}</td>
                    </tr>
                    {{end}}
                </tbody>
            </table>
        </section>
        {{end}}
        {{end}}

        {{if .Thresholds}}
        <section class="section">
            <h2 class="section-title">Thresholds</h2>
            {{range .Thresholds}}
            <div class="threshold-item">
                <span class="threshold-icon {{if .Passed}}pass{{else}}fail{{end}}">{{if .Passed}}✓{{else}}✗{{end}}</span>
                <span class="threshold-expression">{{.Expression}}</span>
                <span class="threshold-value">actual: {{.Value}}{{if .Message}} ({{.Message}}){{end}}</span>
            </div>
            {{end}}
        </section>
        {{end}}

        <footer class="footer">
            <p>Generated by volley • {{.Generated.Format "2006-01-02 15:04:05 MST"}}</p>
        </footer>
    </div>
</body>
</html>
`
