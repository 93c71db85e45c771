package server

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Theme.Title}}</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        :root {
            --accent: {{css .Theme.Accent}};
            --fraud: {{css .Theme.FraudColor}};
            --non-fraud: {{css .Theme.NonFraudColor}};
            --border: #e4e4e7;
            --muted: #71717a;
        }
        body { font-family: -apple-system, 'Segoe UI', sans-serif; color: #18181b; background: #fafafa; line-height: 1.5; }
        .container { max-width: 1100px; margin: 0 auto; padding: 32px 24px; }
        h1 { color: var(--accent); font-size: 28px; margin-bottom: 4px; }
        h2 { font-size: 18px; margin: 28px 0 12px; }
        .subtitle { color: var(--muted); margin-bottom: 24px; }
        .banner { padding: 12px 16px; border-radius: 6px; margin: 16px 0; }
        .banner.info { background: #e0f2fe; color: #075985; }
        .banner.error { background: #fee2e2; color: #991b1b; }
        form { display: flex; gap: 12px; align-items: center; }
        button, .download { background: var(--accent); color: #fff; border: 0; border-radius: 6px; padding: 8px 16px; cursor: pointer; text-decoration: none; font-size: 14px; }
        #busy { display: none; color: var(--muted); }
        .table-wrap { overflow: auto; max-height: 420px; border: 1px solid var(--border); border-radius: 6px; background: #fff; }
        table { border-collapse: collapse; font-size: 12px; font-family: 'JetBrains Mono', monospace; }
        th, td { padding: 4px 10px; border-bottom: 1px solid var(--border); text-align: right; white-space: nowrap; }
        th { position: sticky; top: 0; background: #f4f4f5; }
        .note { color: var(--muted); font-size: 12px; margin-top: 6px; }
        .metrics { display: grid; grid-template-columns: repeat(3, 1fr); gap: 16px; }
        .metric { background: #fff; border: 1px solid var(--border); border-radius: 6px; padding: 16px; }
        .metric .label { color: var(--muted); font-size: 13px; }
        .metric .value { font-size: 26px; font-weight: 600; }
        .metric .delta { font-size: 13px; color: var(--non-fraud); }
        .metric .delta.inverse { color: var(--fraud); }
        .chart img { max-width: 480px; width: 100%; }
    </style>
</head>
<body>
<div class="container">
    <h1>{{.Theme.Title}}</h1>
    <p class="subtitle">{{.Theme.Subtitle}}</p>

    <form method="post" action="/" enctype="multipart/form-data" onsubmit="document.getElementById('busy').style.display='inline'">
        <input type="file" name="file" accept=".csv,text/csv" required>
        <button type="submit">Predict</button>
        <span id="busy">Predicting...</span>
    </form>

    {{if .Info}}<div class="banner info">{{.Info}}</div>{{end}}

    {{with .Preview}}
    <h2>Uploaded Data Preview</h2>
    <div class="table-wrap">
        <table>
            <tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
            {{range .Rows}}<tr>{{range .}}<td>{{cell .}}</td>{{end}}</tr>{{end}}
        </table>
    </div>
    {{end}}

    {{if .Error}}<div class="banner error">{{.Error}}</div>{{end}}

    {{with .Results}}
    <h2>Prediction Results</h2>
    <div class="table-wrap">
        <table>
            <tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
            {{range .Rows}}<tr>{{range .}}<td>{{cell .}}</td>{{end}}</tr>{{end}}
        </table>
    </div>
    {{end}}
    {{if .Results}}
    {{if lt .ShownRows .TotalRows}}<p class="note">Showing the first {{count .ShownRows}} of {{count .TotalRows}} rows. The download holds every row.</p>{{end}}
    <p class="note">Model: {{.Model}}</p>

    <h2>Prediction Summary</h2>
    <div class="metrics">
        {{range .Metrics}}
        <div class="metric">
            <div class="label">{{.Label}}</div>
            <div class="value">{{.Value}}</div>
            {{if .Delta}}<div class="delta{{if .Inverse}} inverse{{end}}">{{.Delta}}</div>{{end}}
        </div>
        {{end}}
    </div>

    <div class="chart"><img src="{{.ChartURI}}" alt="Fraud vs Non-Fraud Cases"></div>

    <h2>Download Results</h2>
    <a class="download" href="{{.CSVURI}}" download="{{.CSVName}}">Download Predictions as CSV</a>
    {{end}}
</div>
</body>
</html>
`
