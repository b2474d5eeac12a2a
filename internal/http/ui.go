package http

import nethttp "net/http"

func dashboardHandler(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.URL.Path != "/" {
		nethttp.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(nethttp.StatusOK)
	_, _ = w.Write([]byte(dashboardHTML))
}

func faviconHandler(w nethttp.ResponseWriter, _ *nethttp.Request) {
	w.WriteHeader(nethttp.StatusNoContent)
}

const dashboardHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>COBIT Maturity Admin</title>
  <style>
    @import url("https://fonts.googleapis.com/css?family=Open+Sans:300,400,600,700");

    :root {
      --brand: #0e5d8f;
      --brand-2: #0971b2;
      --bg: #f7f7f7;
      --paper: #fff;
      --text: #333;
      --muted: #777;
      --line: #ddd;
      --line-soft: #eee;
      --head: #f0f0f0;
      --ok-bg: #dff0d8;
      --ok-text: #3c763d;
      --bad-bg: #f2dede;
      --bad-text: #a94442;
      --bar: #4a90c4;
    }

    * { box-sizing: border-box; }

    body {
      margin: 0;
      background: var(--bg);
      color: var(--text);
      font-family: "Open Sans", "Helvetica Neue", Helvetica, Arial, sans-serif;
      font-size: 14px;
      line-height: 1.42857143;
    }

    header {
      background: linear-gradient(to right, var(--brand) 0, var(--brand-2) 100%);
      border-bottom: 1px solid #0b4e79;
      box-shadow: 0 2px 5px rgba(0, 0, 0, 0.15);
    }

    .container {
      margin: 0 auto;
      padding: 0 15px;
      width: 100%;
      max-width: 1400px;
    }

    .header-inner {
      min-height: 64px;
      display: flex;
      align-items: center;
      justify-content: space-between;
      color: #fff;
    }

    .header-inner h1 { font-size: 18px; font-weight: 600; margin: 0; }
    .header-session { display: flex; align-items: center; gap: 12px; font-size: 13px; }

    main { padding: 20px 0 60px; }

    .panel {
      background: var(--paper);
      border: 1px solid var(--line);
      border-radius: 4px;
      margin-bottom: 20px;
    }

    .panel-heading {
      padding: 10px 15px;
      background: var(--head);
      border-bottom: 1px solid var(--line);
      display: flex;
      align-items: center;
      justify-content: space-between;
    }

    .panel-heading h3 { margin: 0; font-size: 15px; font-weight: 600; }
    .panel-body { padding: 15px; }

    .panel-grid { display: grid; grid-template-columns: 1fr 1fr; gap: 20px; }
    @media (max-width: 900px) { .panel-grid { grid-template-columns: 1fr; } }

    .kpis { display: grid; grid-template-columns: repeat(4, 1fr); gap: 15px; margin-bottom: 20px; }
    .kpi { background: var(--paper); border: 1px solid var(--line); border-radius: 4px; padding: 12px 15px; }
    .kpi-label { color: var(--muted); font-size: 12px; text-transform: uppercase; }
    .kpi-value { font-size: 24px; font-weight: 700; }

    button {
      background: var(--brand-2);
      border: 1px solid var(--brand);
      color: #fff;
      padding: 6px 14px;
      border-radius: 3px;
      cursor: pointer;
      font-size: 13px;
    }
    button:hover { background: var(--brand); }
    button:disabled { background: #aaa; border-color: #999; cursor: not-allowed; }
    button.danger { background: #c9302c; border-color: #ac2925; }
    button.plain { background: #fff; color: var(--text); border-color: var(--line); }

    input[type="text"], input[type="email"], input[type="password"], input[type="date"] {
      border: 1px solid var(--line);
      border-radius: 3px;
      padding: 6px 8px;
      font-size: 13px;
      width: 100%;
    }

    label { display: block; font-size: 12px; color: var(--muted); margin: 8px 0 2px; }

    table { width: 100%; border-collapse: collapse; }
    th, td { text-align: left; padding: 7px 9px; border-bottom: 1px solid var(--line-soft); font-size: 13px; }
    thead th { background: var(--head); border-bottom: 1px solid var(--line); }
    tbody tr { cursor: pointer; }
    tbody tr:hover { background: #f4f9fc; }
    tbody tr.selected { background: #e2eff8; }

    .msg { font-size: 13px; color: var(--muted); margin-top: 8px; min-height: 18px; }
    .msg.error { color: var(--bad-text); }
    .msg.ok { color: var(--ok-text); }

    .pill { display: inline-block; padding: 1px 8px; border-radius: 9px; font-size: 12px; }
    .pill.ok { background: var(--ok-bg); color: var(--ok-text); }
    .pill.bad { background: var(--bad-bg); color: var(--bad-text); }

    .chart { display: flex; align-items: flex-end; gap: 10px; height: 160px; padding: 10px 4px 0; }
    .chart .col { flex: 1; display: flex; flex-direction: column; justify-content: flex-end; align-items: center; height: 100%; }
    .chart .bar { width: 70%; background: var(--bar); border-radius: 2px 2px 0 0; min-height: 2px; }
    .chart .val { font-size: 11px; color: var(--muted); }
    .chart .key { font-size: 11px; margin-top: 4px; white-space: nowrap; }

    pre {
      background: #f4f4f4;
      border: 1px solid var(--line-soft);
      border-radius: 3px;
      padding: 10px;
      font-size: 12px;
      max-height: 260px;
      overflow: auto;
    }

    .login-card { max-width: 380px; margin: 60px auto; }
    .hidden { display: none; }
    .toolbar { display: flex; gap: 8px; align-items: center; flex-wrap: wrap; }
    .toolbar input[type="text"] { width: 240px; }
    .form-grid { display: grid; grid-template-columns: 1fr 1fr; gap: 0 15px; }
  </style>
</head>
<body>
  <header>
    <div class="container header-inner">
      <h1>COBIT Maturity Admin</h1>
      <div class="header-session hidden" id="session-bar">
        <span id="session-email"></span>
        <button class="plain" id="btn-logout">Logout</button>
      </div>
    </div>
  </header>

  <main>
    <div class="container">

      <section id="login-view">
        <article class="panel login-card">
          <div class="panel-heading"><h3>Administrator Login</h3></div>
          <div class="panel-body">
            <label for="login-email">Email</label>
            <input type="email" id="login-email" autocomplete="username" />
            <label for="login-password">Password</label>
            <input type="password" id="login-password" autocomplete="current-password" />
            <div style="margin-top:12px"><button id="btn-login">Log in</button></div>
            <div class="msg" id="login-msg"></div>
          </div>
        </article>
      </section>

      <section id="data-view" class="hidden">
        <div class="kpis">
          <article class="kpi"><div class="kpi-label">Respondents</div><div class="kpi-value" id="stat-count">0</div></article>
          <article class="kpi"><div class="kpi-label">Mean Overall</div><div class="kpi-value" id="stat-mean">0.00</div></article>
          <article class="kpi"><div class="kpi-label">Median Overall</div><div class="kpi-value" id="stat-median">0.00</div></article>
          <article class="kpi"><div class="kpi-label">Top Level</div><div class="kpi-value" id="stat-top-level">-</div></article>
        </div>

        <section class="panel-grid">
          <article class="panel">
            <div class="panel-heading"><h3>Average Maturity by Domain</h3></div>
            <div class="panel-body"><div class="chart" id="chart-domains"></div></div>
          </article>
          <article class="panel">
            <div class="panel-heading"><h3>Average Maturity by Process</h3></div>
            <div class="panel-body"><div class="chart" id="chart-processes"></div></div>
          </article>
        </section>

        <article class="panel">
          <div class="panel-heading"><h3>Maturity Level Distribution</h3></div>
          <div class="panel-body"><div class="chart" id="chart-levels"></div></div>
        </article>

        <article class="panel">
          <div class="panel-heading">
            <h3>Responses</h3>
            <div class="toolbar">
              <input type="text" id="filter" placeholder="Filter by name, role, unit..." />
              <button id="btn-refresh">Refresh</button>
              <button class="plain" id="btn-csv-summary">Summary CSV</button>
              <button class="plain" id="btn-csv-detail">Detail CSV</button>
            </div>
          </div>
          <div class="panel-body">
            <table>
              <thead><tr><th>Submitted</th><th>Name</th><th>Role</th><th>Unit</th><th>Overall</th><th>Level</th><th>APO</th><th>DSS</th><th>MEA</th></tr></thead>
              <tbody id="tbody"><tr><td colspan="9">No data yet. Click Refresh.</td></tr></tbody>
            </table>
            <div class="msg" id="data-msg"></div>
          </div>
        </article>

        <section class="panel-grid">
          <article class="panel">
            <div class="panel-heading">
              <h3>Respondent Detail</h3>
              <button class="plain" id="btn-clear-detail">Clear</button>
            </div>
            <div class="panel-body">
              <div class="msg" id="detail-meta">Select a respondent from the table to see details.</div>
              <div class="form-grid">
                <div>
                  <label for="edit-name">Name</label>
                  <input type="text" id="edit-name" disabled />
                </div>
                <div>
                  <label for="edit-role">Role</label>
                  <input type="text" id="edit-role" disabled />
                </div>
                <div>
                  <label for="edit-unit">Unit</label>
                  <input type="text" id="edit-unit" disabled />
                </div>
                <div>
                  <label for="edit-date">Date</label>
                  <input type="text" id="edit-date" disabled />
                </div>
              </div>
              <div style="margin-top:12px; display:flex; gap:8px">
                <button id="btn-save" disabled>Save</button>
                <button class="danger" id="btn-delete" disabled>Delete</button>
              </div>
              <div class="msg" id="detail-msg"></div>
              <div class="chart" id="chart-detail-processes"></div>
              <pre id="detail-answers">-</pre>
            </div>
          </article>

          <article class="panel">
            <div class="panel-heading"><h3>Recent Admin Activity</h3></div>
            <div class="panel-body">
              <table>
                <thead><tr><th>When</th><th>Actor</th><th>Action</th><th>Record</th></tr></thead>
                <tbody id="audit-body"><tr><td colspan="4">Audit log disabled or empty.</td></tr></tbody>
              </table>
            </div>
          </article>
        </section>
      </section>

    </div>
  </main>

  <script>
    const text = (id, v) => document.getElementById(id).textContent = v;
    const el = (id) => document.getElementById(id);

    let selectedID = "";

    async function api(path, options) {
      const r = await fetch(path, options);
      let body = null;
      try { body = await r.json(); } catch {}
      if (!r.ok) {
        const msg = body && body.error ? body.error : (path + " -> " + r.status);
        const err = new Error(msg);
        err.status = r.status;
        throw err;
      }
      return body;
    }

    function postJSON(path, payload) {
      return api(path, {
        method: "POST",
        headers: { "Content-Type": "application/json" },
        body: JSON.stringify(payload || {}),
      });
    }

    function setMsg(id, message, kind) {
      const node = el(id);
      node.textContent = message || "";
      node.className = "msg" + (kind ? " " + kind : "");
    }

    function fmtDate(iso) {
      if (!iso) return "-";
      const d = new Date(iso);
      return isNaN(d) ? iso : d.toLocaleString();
    }

    function renderChart(id, items, maxValue) {
      const chart = el(id);
      chart.innerHTML = "";
      for (const item of items) {
        const col = document.createElement("div");
        col.className = "col";
        const pct = maxValue > 0 ? Math.max(2, (item.value / maxValue) * 100) : 2;
        col.innerHTML =
          '<div class="val">' + item.value + '</div>' +
          '<div class="bar" style="height:' + pct + '%"></div>' +
          '<div class="key">' + item.key + '</div>';
        chart.appendChild(col);
      }
      if (!items.length) {
        chart.innerHTML = '<div class="msg">No data.</div>';
      }
    }

    function renderView(model) {
      text("stat-count", String(model.overall.count));
      text("stat-mean", model.overall.mean.toFixed(2));
      text("stat-median", model.overall.median.toFixed(2));

      let top = model.levels[0];
      for (const lc of model.levels) { if (lc.count > top.count) top = lc; }
      text("stat-top-level", model.overall.count ? top.name : "-");

      renderChart("chart-domains",
        model.domains.map((d) => ({ key: d.key, value: d.average })), 5);
      renderChart("chart-processes",
        model.processes.map((p) => ({ key: p.key, value: p.average })), 5);

      const maxCount = Math.max(1, ...model.levels.map((lc) => lc.count));
      renderChart("chart-levels",
        model.levels.map((lc) => ({ key: lc.level + " " + lc.name, value: lc.count })), maxCount);

      const tbody = el("tbody");
      tbody.innerHTML = "";
      for (const row of model.rows) {
        const tr = document.createElement("tr");
        if (row.selected) tr.className = "selected";
        tr.innerHTML =
          "<td>" + fmtDate(row.createdAt) + "</td>" +
          "<td>" + (row.name || "-") + "</td>" +
          "<td>" + (row.role || "-") + "</td>" +
          "<td>" + (row.unit || "-") + "</td>" +
          "<td><b>" + row.overall.toFixed(2) + "</b></td>" +
          "<td>" + row.level + "</td>" +
          "<td>" + row.apo + "</td>" +
          "<td>" + row.dss + "</td>" +
          "<td>" + row.mea + "</td>";
        tr.addEventListener("click", () => selectRow(row.id));
        tbody.appendChild(tr);
      }
      if (!model.rows.length) {
        tbody.innerHTML = '<tr><td colspan="9">No matching responses.</td></tr>';
      }

      renderDetail(model.detail);
    }

    // The edit form is populated only on explicit row selection, never
    // here, so a refresh cannot clobber an in-progress edit.
    function renderDetail(detail) {
      const editable = Boolean(detail);
      for (const id of ["edit-name", "edit-role", "edit-unit", "edit-date"]) {
        el(id).disabled = !editable;
      }
      el("btn-save").disabled = !editable;
      el("btn-delete").disabled = !editable;

      if (!detail) {
        selectedID = "";
        setMsg("detail-meta", "Select a respondent from the table to see details.");
        text("detail-answers", "-");
        el("chart-detail-processes").innerHTML = "";
        for (const id of ["edit-name", "edit-role", "edit-unit", "edit-date"]) {
          el(id).value = "";
        }
        return;
      }

      setMsg("detail-meta",
        (detail.respondent.name || "-") + " • " + (detail.respondent.role || "-") +
        " • overall " + detail.overall.toFixed(2) +
        " (" + detail.levelName + ") • " + fmtDate(detail.createdAt));
      text("detail-answers", detail.answersJson);
      renderChart("chart-detail-processes",
        detail.processes.map((p) => ({ key: p.key, value: p.average })), 5);
    }

    function populateEditForm(detail) {
      el("edit-name").value = detail.respondent.name || "";
      el("edit-role").value = detail.respondent.role || "";
      el("edit-unit").value = detail.respondent.unit || "";
      el("edit-date").value = detail.respondent.date || "";
    }

    async function loadView() {
      const filter = el("filter").value || "";
      const model = await api("/api/v1/view?filter=" + encodeURIComponent(filter));
      renderView(model);
      return model;
    }

    async function login() {
      setMsg("login-msg", "Logging in...");
      try {
        const res = await postJSON("/api/v1/session/login", {
          email: el("login-email").value.trim(),
          password: el("login-password").value,
        });
        el("login-view").classList.add("hidden");
        el("data-view").classList.remove("hidden");
        el("session-bar").classList.remove("hidden");
        text("session-email", res.email);
        setMsg("login-msg", "");
        await refresh();
      } catch (err) {
        setMsg("login-msg", "Login failed: " + err.message, "error");
      }
    }

    async function logout() {
      try { await postJSON("/api/v1/session/logout"); } catch {}
      selectedID = "";
      el("data-view").classList.add("hidden");
      el("session-bar").classList.add("hidden");
      el("login-view").classList.remove("hidden");
      setMsg("login-msg", "Logged out.");
    }

    async function refresh() {
      setMsg("data-msg", "Loading...");
      try {
        const res = await postJSON("/api/v1/responses/refresh");
        setMsg("data-msg", "Loaded " + res.meta.count + " responses.", "ok");
        await loadView();
        await loadAudit();
      } catch (err) {
        setMsg("data-msg", "Refresh failed: " + err.message, "error");
      }
    }

    async function selectRow(id) {
      try {
        await postJSON("/api/v1/responses/select", { id });
        selectedID = id;
        const model = await loadView();
        if (model.detail) populateEditForm(model.detail);
        setMsg("detail-msg", "");
      } catch (err) {
        setMsg("detail-msg", err.message, "error");
      }
    }

    async function clearDetail() {
      try {
        await postJSON("/api/v1/responses/clear");
        selectedID = "";
        await loadView();
        setMsg("detail-msg", "");
      } catch (err) {
        setMsg("detail-msg", err.message, "error");
      }
    }

    async function saveEdit() {
      if (!selectedID) return;
      setMsg("detail-msg", "Saving...");
      try {
        await api("/api/v1/responses/" + encodeURIComponent(selectedID), {
          method: "PATCH",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify({ respondent: {
            name: el("edit-name").value,
            role: el("edit-role").value,
            unit: el("edit-unit").value,
            date: el("edit-date").value,
          }}),
        });
        setMsg("detail-msg", "Saved.", "ok");
        await loadView();
        await loadAudit();
      } catch (err) {
        setMsg("detail-msg", "Save failed: " + err.message, "error");
      }
    }

    async function deleteRecord() {
      if (!selectedID) return;
      if (!confirm("Delete this response permanently? This cannot be undone.")) return;
      try {
        await api("/api/v1/responses/" + encodeURIComponent(selectedID), { method: "DELETE" });
        selectedID = "";
        setMsg("detail-msg", "Deleted.", "ok");
        await loadView();
        await loadAudit();
      } catch (err) {
        setMsg("detail-msg", "Delete failed: " + err.message, "error");
      }
    }

    async function loadAudit() {
      try {
        const res = await api("/api/v1/audit?limit=20");
        const tbody = el("audit-body");
        tbody.innerHTML = "";
        for (const ev of res.data) {
          const tr = document.createElement("tr");
          tr.innerHTML =
            "<td>" + fmtDate(ev.occurred_at) + "</td>" +
            "<td>" + ev.actor + "</td>" +
            "<td>" + ev.action + "</td>" +
            "<td>" + (ev.record_id || "-") + "</td>";
          tbody.appendChild(tr);
        }
        if (!res.data.length) {
          tbody.innerHTML = '<tr><td colspan="4">No activity recorded yet.</td></tr>';
        }
      } catch {
        // Audit log is optional; leave the placeholder row in place.
      }
    }

    el("btn-login").addEventListener("click", login);
    el("login-password").addEventListener("keydown", (e) => { if (e.key === "Enter") login(); });
    el("btn-logout").addEventListener("click", logout);
    el("btn-refresh").addEventListener("click", refresh);
    el("btn-clear-detail").addEventListener("click", clearDetail);
    el("btn-save").addEventListener("click", saveEdit);
    el("btn-delete").addEventListener("click", deleteRecord);
    el("filter").addEventListener("input", () => { loadView().catch(() => {}); });
    el("btn-csv-summary").addEventListener("click", () => { window.location = "/api/v1/export/summary.csv"; });
    el("btn-csv-detail").addEventListener("click", () => { window.location = "/api/v1/export/detail.csv"; });
  </script>
</body>
</html>
`
