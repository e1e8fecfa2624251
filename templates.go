package otter

// mainTemplate is MinimalGS (Copyright (C) 2012-2013 Leif Linse, GPLv2)
// with our placement helpers added.
const mainTemplate = `/*
 * This file is part of MinimalGS, which is a GameScript for OpenTTD
 * Copyright (C) 2012-2013  Leif Linse
 *
 * MinimalGS is free software; you can redistribute it and/or modify it
 * under the terms of the GNU General Public License as published by
 * the Free Software Foundation; version 2 of the License
 *
 * MinimalGS is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with MinimalGS; If not, see <http://www.gnu.org/licenses/> or
 * write to the Free Software Foundation, Inc., 51 Franklin Street,
 * Fifth Floor, Boston, MA 02110-1301 USA.
 *
 */

/** Import SuperLib for GameScript **/
import("util.superlib", "SuperLib", 36);
Result <- SuperLib.Result;
Log <- SuperLib.Log;
Helper <- SuperLib.Helper;
Tile <- SuperLib.Tile;
Direction <- SuperLib.Direction;
Town <- SuperLib.Town;
Industry <- SuperLib.Industry;
Story <- SuperLib.Story;

/** Import other source code files **/
require("version.nut"); // get SELF_VERSION


class MainClass extends GSController
{
	_loaded_data = null;
	_loaded_from_version = null;
	_init_done = null;

	constructor()
	{
		this._init_done = false;
		this._loaded_data = null;
		this._loaded_from_version = null;
	}
}

/*
 * Called by OpenTTD after the constructor, and after Load() when loading
 * a save game. Never return from this method.
 */
function MainClass::Start()
{
	// Some OpenTTD versions return object id 0 for everything created
	// during world generation, so delay Init until the game has started.
	if (Helper.HasWorldGenBug()) GSController.Sleep(1);

	this.Init();

	// Wait for the game to start
	GSController.Sleep(1);

	GSGame.Pause();

{{- if .Towns}}

{{range .Towns}}{{.Script}}{{end}}
	print("Finished adding towns.");
{{- end}}
{{- if .Industries}}

	local bank_balance = GSCompany.ChangeBankBalance(0,9990000000,7,GSMap.TILE_INVALID);
{{range .Industries}}{{.Script}}{{end}}
	print("Finished adding industries.");

	// set bank balance back to starting balance
	bank_balance = GSCompany.GetBankBalance(0);
	local bb_diff = (bank_balance - 100000);
	bank_balance = GSCompany.ChangeBankBalance(0,-1*bb_diff,0,GSMap.TILE_INVALID);
{{- end}}
{{- if .Canals}}

	// Start in deity mode to add funds. Then change to company mode to place canals.
	local canal_balance = GSCompany.ChangeBankBalance(0,9990000000,7,GSMap.TILE_INVALID);
{{range .Canals}}{{.Script}}{{end}}
	print("Finished adding canals.");

	// set bank balance back to starting balance
	canal_balance = GSCompany.GetBankBalance(0);
	local canal_diff = (canal_balance - 100000);
	canal_balance = GSCompany.ChangeBankBalance(0,-1*canal_diff,0,GSMap.TILE_INVALID);
{{- end}}
{{- if .Signs}}

{{range .Signs}}{{.Script}}{{end}}
	print("Finished adding signs.");
{{- end}}

	print("Finish");

	GSGame.Unpause();
}

/*
 * Called during initialization of the Game Script.
 */
function MainClass::Init()
{
	if (this._loaded_data != null) {
		// Copy loaded data from this._loaded_data to this.*
	} else {
		// construct goals etc.
	}

	// Indicate that all data structures has been initialized/restored.
	this._init_done = true;
	this._loaded_data = null;
}

/*
 * Handles incoming events from OpenTTD.
 */
function MainClass::HandleEvents()
{
	if(GSEventController.IsEventWaiting()) {
		local ev = GSEventController.GetNextEvent();
		if (ev == null) return;

		local ev_type = ev.GetEventType();
		switch (ev_type) {
			case GSEvent.ET_COMPANY_NEW: {
				local company_event = GSEventCompanyNew.Convert(ev);
				local company_id = company_event.GetCompanyID();
				Story.ShowMessage(company_id, GSText(GSText.STR_WELCOME, company_id));
				break;
			}
		}
	}
}

function MainClass::EndOfMonth()
{
}

function MainClass::EndOfYear()
{
}

/*
 * Called by OpenTTD when an (auto)-save occurs.
 */
function MainClass::Save()
{
	Log.Info("Saving data to savegame", Log.LVL_INFO);

	if (!this._init_done) {
		return this._loaded_data != null ? this._loaded_data : {};
	}

	return {
		some_data = null,
	};
}

/*
 * Called by OpenTTD with the table returned by Save() when loading.
 */
function MainClass::Load(version, tbl)
{
	Log.Info("Loading data from savegame made with version " + version + " of the game script", Log.LVL_INFO);

	this._loaded_data = {}
	foreach(key, val in tbl) {
		this._loaded_data.rawset(key, val);
	}

	this._loaded_from_version = version;
}

function MainClass::TryTown(x, y, size, city, name, target_pop) {
	local success = false;
	local timeout = 1000;
	local counter = 0;
	local exp = false;

	while(!success && counter < timeout) {
		local cur_tile = GSMap.GetTileIndex(x, y);
		success = GSTown.FoundTown(cur_tile, size, city, GSTown.ROAD_LAYOUT_BETTER_ROADS, name);
		// move coordinates around until it places
		x = x + GSBase.RandRange(3) - 1;
		y = y + GSBase.RandRange(3) - 1;
		counter += 1;
	}

	// Grow pop if town is built
	if(success) {
		if(target_pop > 0) {
			local town_id = GSTownList();
			local pop = GSTown.GetPopulation(town_id.Begin());
			if(pop < target_pop) {
				local nhouses = (target_pop - pop)/10;
				if(nhouses > 1) {
					exp = GSTown.ExpandTown(town_id.Begin(), nhouses);
					if(!exp) {
						GSLog.Warning(name);
					}
				}
			}
		}
	}

	if(!success) {
		GSLog.Warning(name);
	}
}

function MainClass::TryIndustry(x, y, name, type, trylevel, level_x2, level_y2) {
	local success = false;
	local timeout = 2000;
	local counter = 0;

	local cur_tile = GSMap.GetTileIndex(x, y);
	success = GSIndustryType.BuildIndustry(type, cur_tile);

	if(success) {
		return success;
	}

	if (trylevel) {
		local x2 = x + level_x2 + 1;
		local y2 = y + level_y2 + 1;
		if (!LevelTiles(x, y, x2, y2)) {
			print("Leveling failed. Could not place industry: " + name);
			return false;
		}
	}

	while(!success && counter < timeout) {
		cur_tile = GSMap.GetTileIndex(x, y);
		success = GSIndustryType.BuildIndustry(type, cur_tile);
		// move coordinates around until it places
		x = x + GSBase.RandRange(3) - 1;
		y = y + GSBase.RandRange(3) - 1;
		counter += 1;
	}
	if (!success) {
		print("Failed to add industry: " + name);
	}

	return success;
}

// place a canal tile, used for rivers & lakes above sea level
function MainClass::PlaceCanal(x, y) {
	local deity = GSCompanyMode.IsDeity();
	local cm;
	if (deity) {
		cm = GSCompanyMode(0);
	}

	local cur_tile = GSMap.GetTileIndex(x,y);
	return GSMarine.BuildCanal(cur_tile);
}

// place a sign with the given text
function MainClass::PlaceSign(x, y, text) {
	local cur_tile = GSMap.GetTileIndex(x, y);
	local sign = GSSign.BuildSign(cur_tile, text);
	if (!GSSign.IsValidSign(sign)) {
		GSLog.Warning("Could not place sign: " + text);
	}
}

// level the tiles between x1,y1 (upper left) & x2,y2 (lower right)
function MainClass::LevelTiles(x1, y1, x2, y2) {
	local start_tile = GSMap.GetTileIndex(x1, y1);
	local end_tile = GSMap.GetTileIndex(x2, y2);
	local deity = GSCompanyMode.IsDeity();
	local cm;
	if (deity) {
		cm = GSCompanyMode(0);
	}

	local success = GSTile.LevelTiles(start_tile, end_tile);
	if (!success) {
		print(">Leveling failed.");
	}
	return success;
}
`

const infoTemplate = `/*
 * {{.Comment}}
*/

require("version.nut");

class FMainClass extends GSInfo {
	function GetAuthor()		{ return {{quote .Author}}; }
	function GetName()			{ return {{quote .Name}}; }
	function GetDescription() 	{ return {{quote .Description}}; }
	function GetVersion()		{ return {{.Version}}; }
	function GetDate()			{ return {{quote .Date}}; }
	function CreateInstance()	{ return "MainClass"; }
	function GetShortName() 	{ return {{quote .ShortName}}; }
	function GetAPIVersion() 	{ return {{quote .APIVersion}}; }
	function GetURL() 			{ return {{quote .URL}}; }
	function GetSettings() {
		AddSetting({name = "log_level", description = "Debug: Log level (higher = print more)", easy_value = 3, medium_value = 3, hard_value = 3, custom_value = 3, flags = CONFIG_INGAME, min_value = 1, max_value = 3});
		AddLabels("log_level", {_1 = "1: Info", _2 = "2: Verbose", _3 = "3: Debug" } );
	}
}

RegisterGS(FMainClass());
`

const versionTemplate = `/*
 * Warning: This file is loaded both by main.nut and info.nut
 * thus, don't place anything here that is heavy or not required
 * to be available when OpenTTD scans the info.nut file.
*/

SELF_VERSION <- {{.}};
`
