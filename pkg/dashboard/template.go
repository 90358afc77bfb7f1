package dashboard

import "html/template"

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="{{.CountdownSeconds}}">
<title>Amazon Price Tracker</title>
<style>
  body { font-family: sans-serif; margin: 2em; background: #fafafa; color: #222; }
  h1 { margin-bottom: 0.2em; }
  .sub { color: #666; margin-bottom: 1.5em; }
  .metrics { display: flex; gap: 1.5em; margin-bottom: 2em; }
  .metric { background: #fff; border: 1px solid #ddd; border-radius: 6px; padding: 1em 1.5em; min-width: 10em; }
  .metric .label { font-size: 0.8em; color: #666; text-transform: uppercase; }
  .metric .value { font-size: 1.6em; font-weight: bold; }
  table { border-collapse: collapse; width: 100%; background: #fff; }
  th, td { border: 1px solid #ddd; padding: 0.5em 0.8em; text-align: left; }
  th { background: #f0f0f0; }
  tr.drop { background: #fff3cd; }
  tr.deal { background: #ffcccc; }
  .chart { background: #fff; border: 1px solid #ddd; border-radius: 6px; padding: 1em; margin-bottom: 2em; }
  .legend span { display: inline-block; margin-right: 1.2em; font-size: 0.85em; }
  .legend i { display: inline-block; width: 10px; height: 10px; margin-right: 0.3em; }
  .toolbar { margin-bottom: 1em; }
  .toolbar a { margin-right: 1em; }
</style>
</head>
<body>
<h1>Live Amazon.in Price Tracker</h1>
<p class="sub">Snapshot {{.View.SourceFile}} &middot; auto-refresh in <span id="countdown">{{.CountdownSeconds}}</span>s</p>

<div class="toolbar">
  <a href="/?refresh=1">Refresh now</a>
  <a href="/download.csv">Download CSV</a>
</div>

<div class="metrics">
  <div class="metric"><div class="label">Products Tracked</div><div class="value">{{len .View.Rows}}</div></div>
  <div class="metric"><div class="label">Avg Price</div><div class="value">{{.View.FormattedAvgPrice}}</div></div>
  <div class="metric"><div class="label">Avg Discount</div><div class="value">{{.View.FormattedAvgDiscount}}</div></div>
  <div class="metric"><div class="label">Last Updated</div><div class="value">{{.View.FormattedLastUpdated}}</div></div>
</div>

{{with .View.Chart}}
<div class="chart">
  <h2>Price Movement</h2>
  <div class="legend">
    {{range .Series}}<span><i style="background:{{.Color}}"></i>{{.Label}}</span>{{end}}
  </div>
  <svg viewBox="0 0 {{.Width}} {{.Height}}" width="{{.Width}}" height="{{.Height}}">
    {{range .Series}}
    <polyline fill="none" stroke="{{.Color}}" stroke-width="2" points="{{.Points}}"/>
    {{end}}
    <text x="4" y="12" font-size="11" fill="#666">{{.MaxY}}</text>
    <text x="4" y="{{.Height}}" font-size="11" fill="#666">{{.MinY}}</text>
  </svg>
</div>
{{end}}

<h2>Current Prices &amp; Alerts</h2>
<p class="sub">Rows highlighted at {{.AlertPercent}}%+ discount, stronger at double that.</p>
<table>
  <tr>
    <th>Title</th><th>Price</th><th>MRP</th><th>Discount</th><th>Rating</th><th>Reviews</th><th>Availability</th><th>Updated</th><th></th>
  </tr>
  {{range .View.Rows}}
  <tr class="{{.Tier}}">
    <td>{{.Title}}</td>
    <td>{{.FormattedPrice}}</td>
    <td>{{.FormattedListPrice}}</td>
    <td>{{.FormattedDiscount}}</td>
    <td>{{.Rating}}</td>
    <td>{{.Reviews}}</td>
    <td>{{.Availability}}</td>
    <td>{{.ScrapedAt.Format "02 Jan 15:04"}}</td>
    <td><a href="{{.URL}}" target="_blank" rel="noopener">View Product</a></td>
  </tr>
  {{end}}
</table>

<script>
  (function () {
    var left = {{.CountdownSeconds}};
    var el = document.getElementById("countdown");
    setInterval(function () {
      if (left > 0) { left--; }
      el.textContent = left;
    }, 1000);
  })();
</script>
</body>
</html>
`))

var noDataTemplate = template.Must(template.New("nodata").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="30">
<title>Amazon Price Tracker</title>
<style>
  body { font-family: sans-serif; margin: 4em; color: #222; }
  .warn { background: #fff3cd; border: 1px solid #ffe08a; border-radius: 6px; padding: 1.5em; }
</style>
</head>
<body>
<h1>Live Amazon.in Price Tracker</h1>
<div class="warn">No data found! Run the scraper first.</div>
</body>
</html>
`))
