package web

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>breakline</title>
<style>
  body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; background: #10141a; color: #d7dde5; margin: 0; padding: 2rem; }
  h1 { font-size: 1.3rem; letter-spacing: 0.05em; }
  .grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 1rem; margin: 1.5rem 0; }
  .card { background: #1a212b; border-radius: 8px; padding: 1rem; }
  .card .label { font-size: 0.75rem; text-transform: uppercase; color: #7b8794; }
  .card .value { font-size: 1.4rem; margin-top: 0.3rem; }
  .pos { color: #4cc38a; } .neg { color: #e5484d; }
  button { background: #2d3b4e; color: #d7dde5; border: none; border-radius: 6px; padding: 0.5rem 1.2rem; margin-right: 0.5rem; cursor: pointer; }
  button:hover { background: #3b4d66; }
  table { width: 100%; border-collapse: collapse; margin-top: 1rem; }
  th, td { text-align: left; padding: 0.4rem 0.6rem; border-bottom: 1px solid #263140; font-size: 0.85rem; }
  th { color: #7b8794; font-weight: 500; }
</style>
</head>
<body>
<h1>breakline</h1>
<div>
  <button onclick="control('start')">Start</button>
  <button onclick="control('stop')">Stop</button>
  <span id="running"></span>
</div>
<div class="grid">
  <div class="card"><div class="label">Price</div><div class="value" id="price">-</div></div>
  <div class="card"><div class="label">Total PnL</div><div class="value" id="pnl">-</div></div>
  <div class="card"><div class="label">Win rate</div><div class="value" id="winrate">-</div></div>
  <div class="card"><div class="label">Trades</div><div class="value" id="trades">-</div></div>
  <div class="card"><div class="label">RSI</div><div class="value" id="rsi">-</div></div>
  <div class="card"><div class="label">Position</div><div class="value" id="position">flat</div></div>
</div>
<table id="history">
  <thead><tr><th>Closed</th><th>Side</th><th>Entry</th><th>Exit</th><th>PnL</th><th>Reason</th></tr></thead>
  <tbody></tbody>
</table>
<script>
async function control(action) {
  await fetch('/api/' + action, { method: 'POST' });
  refresh();
}
async function refresh() {
  const res = await fetch('/api/status');
  if (!res.ok) return;
  const s = await res.json();
  document.getElementById('running').textContent = s.bot_running ? 'running' : 'stopped';
  document.getElementById('price').textContent = s.current_price;
  const pnl = document.getElementById('pnl');
  pnl.textContent = s.total_pnl;
  pnl.className = 'value ' + (parseFloat(s.total_pnl) >= 0 ? 'pos' : 'neg');
  document.getElementById('winrate').textContent = (s.win_rate * 100).toFixed(1) + '%';
  document.getElementById('trades').textContent = s.total_trades;
  document.getElementById('rsi').textContent = s.indicators ? parseFloat(s.indicators.rsi).toFixed(1) : '-';
  document.getElementById('position').textContent = s.current_position ? s.current_position.side + ' @ ' + s.current_position.entry_price : 'flat';
  const body = document.querySelector('#history tbody');
  body.innerHTML = '';
  for (const t of (s.trades || [])) {
    const row = body.insertRow();
    row.insertCell().textContent = new Date(t.exit_time).toLocaleString();
    row.insertCell().textContent = t.side;
    row.insertCell().textContent = t.entry_price;
    row.insertCell().textContent = t.exit_price;
    const cell = row.insertCell();
    cell.textContent = t.pnl;
    cell.className = parseFloat(t.pnl) >= 0 ? 'pos' : 'neg';
    row.insertCell().textContent = t.reason;
  }
}
refresh();
setInterval(refresh, 3000);
</script>
</body>
</html>`
